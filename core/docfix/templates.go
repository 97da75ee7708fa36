package docfix

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/docfixer/core/xml"
)

// observerExample is the strongly typed Notifications usage sample. The verbs
// are: type short name, Observe method, body, handler type.
const observerExample = `
//
// Lambda style
//

// listening
notification = %[1]s.Notifications.%[2]s ((sender, args) => {
    /* Access strongly typed args */
%[3]s
});

// To stop listening:
notification.Dispose ();

//
// Method style
//
NSObject notification;
void Callback (object sender, %[4]s args)
{
    // Access strongly typed args
%[3]s
}

void Setup ()
{
    notification = %[1]s.Notifications.%[2]s (Callback);
}

void Teardown ()
{
    notification.Dispose ();
}`

// centerExample is the NSNotificationCenter usage sample. The "{0}" format
// items belong to the C# sample.
const centerExample = `
// Lambda style
NSNotificationCenter.DefaultCenter.AddObserver (
        %[1]s.%[2]s, (notification) => {Console.WriteLine ("Received the notification {0}", notification); }


// Method style
void Callback (NSNotification notification)
{
    Console.WriteLine ("Received a notification {0}", notification);
}

void Setup ()
{
    NSNotificationCenter.DefaultCenter.AddObserver (%[1]s.%[2]s, Callback);
}
`

const (
	notificationLine = `    Console.WriteLine ("Notification: {0}", args.Notification);`
	propertyLine     = `    Console.WriteLine ("%[1]s", args.%[1]s);`
)

// codeExample builds <example><code lang="c#"> holding text verbatim.
func codeExample(text string) *xml.Node {
	example, _ := xml.ParseFragment(`<example><code lang="c#" /></example>`)
	example.FindOne("code").SetText(text)
	return example
}

// notificationBody is the callback body of the observer example: one line
// for the notification and one per event-args property.
func notificationBody(props []string, hasArgs bool) string {
	var b strings.Builder
	b.WriteString(notificationLine)
	if hasArgs {
		b.WriteString("\n")
		for _, p := range props {
			b.WriteString("\n")
			fmt.Fprintf(&b, propertyLine, p)
		}
	}
	return b.String()
}

func observerCode(typeName, observe, body, handler string) *xml.Node {
	return codeExample(fmt.Sprintf(observerExample, typeName, observe, body, handler))
}

func centerCode(typeName, member string) *xml.Node {
	return codeExample(fmt.Sprintf(centerExample, typeName, member))
}
