package docfix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/docfixer/core/docstore"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/xml"
)

const manifestYAML = `
types:
  - namespace: MonoTouch.UIKit
    name: UIKeyboard
    properties:
      - name: AnimationKey
        type: MonoTouch.Foundation.NSString
        field: {symbol: UIKeyboardAnimationDurationUserInfoKey}
      - name: WillShowNotification
        type: MonoTouch.Foundation.NSString
        field: {symbol: UIKeyboardWillShowNotification}
        notification: {event_args: MonoTouch.UIKit.UIKeyboardEventArgs}
      - name: DidHideNotification
        type: MonoTouch.Foundation.NSString
        field: {symbol: UIKeyboardDidHideNotification}
  - namespace: MonoTouch.UIKit
    name: UIKeyboardEventArgs
    properties:
      - name: FrameBegin
        type: System.Drawing.RectangleF
      - name: AnimationDuration
        type: System.Double
  - namespace: MonoTouch.Foo
    name: Client
    base_type:
      events:
        - {delegate: MonoTouch.Foo.ClientDelegate, accessor: WeakDelegate}
    properties:
      - name: WeakDelegate
        type: MonoTouch.Foundation.NSObject
        null_allowed: true
      - name: Delegate
        type: MonoTouch.Foo.ClientDelegate
        wrap: WeakDelegate
    methods:
      - name: Connect
        return_type: System.Void
        export: {selector: "connect:completion:"}
        async: {}
        parameters:
          - {name: host, type: System.String, null_allowed: true}
          - {name: completion, type: System.Action}
      - name: Load
        return_type: System.Void
        export: {selector: "load:completion:"}
        async: {}
        parameters:
          - {name: url, type: System.String}
          - {name: completion, type: "System.Action<MonoTouch.Foundation.NSData>"}
      - name: Fetch
        return_type: System.Void
        export: {selector: "fetch:"}
        async: {method_name: FetchDataAsync, result_type_name: FetchResult}
        parameters:
          - {name: completion, type: MonoTouch.Foo.FetchHandler}
      - name: Refetch
        return_type: System.Void
        export: {selector: "refetch:"}
        async: {result_type_name: FetchResult}
        parameters:
          - {name: completion, type: MonoTouch.Foo.FetchHandler}
      - name: Query
        return_type: System.Void
        export: {selector: "query:"}
        async: {}
        parameters:
          - {name: completion, type: MonoTouch.Foo.QueryHandler}
      - name: Ping
        return_type: System.Void
        export: {selector: "ping:"}
        async: {}
        parameters:
          - {name: completion, type: MonoTouch.Foo.PingHandler}
      - name: Reset
        export: {selector: "reset"}
        internal: true
        thread_safe: true
  - namespace: MonoTouch.Foo
    name: ClientDelegate
    methods:
      - name: DidConnect
        return_type: System.Void
      - name: ShouldReconnect
        return_type: System.Boolean
  - namespace: MonoTouch.Foo
    name: Worker
    thread_safe: true
    methods:
      - name: Stop
        return_type: System.Void
        export: {selector: "stop:"}
        async: {}
        parameters:
          - {name: completion, type: System.Action}
`

const keyboardXML = `<Type Name="UIKeyboard" FullName="MonoTouch.UIKit.UIKeyboard">
  <Docs>
    <summary>Keyboard constants.</summary>
    <remarks>To be added.</remarks>
  </Docs>
  <Members>
    <Member MemberName="AnimationKey">
      <MemberType>Property</MemberType>
      <ReturnValue><ReturnType>MonoTouch.Foundation.NSString</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <value>To be added.</value>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="WillShowNotification">
      <MemberType>Property</MemberType>
      <ReturnValue><ReturnType>MonoTouch.Foundation.NSString</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <value>To be added.</value>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="DidHideNotification">
      <MemberType>Property</MemberType>
      <ReturnValue><ReturnType>MonoTouch.Foundation.NSString</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <value>To be added.</value>
        <remarks><para>Old.</para><example><code lang="c#">Observe ();</code></example></remarks>
      </Docs>
    </Member>
  </Members>
</Type>
`

const companionXML = `<Type Name="UIKeyboard+Notifications" FullName="MonoTouch.UIKit.UIKeyboard+Notifications">
  <Docs>
    <summary>To be added.</summary>
    <remarks>To be added.</remarks>
  </Docs>
  <Members>
    <Member MemberName="ObserveWillShow">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>MonoTouch.Foundation.NSObject</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="handler" Type="System.EventHandler&lt;MonoTouch.UIKit.UIKeyboardEventArgs&gt;" />
      </Parameters>
      <Docs>
        <param name="handler">To be added.</param>
        <summary>To be added.</summary>
        <returns>To be added.</returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
  </Members>
</Type>
`

const clientXML = `<Type Name="Client" FullName="MonoTouch.Foo.Client">
  <Docs>
    <summary>To be added.</summary>
    <remarks>To be added.</remarks>
  </Docs>
  <Members>
    <Member MemberName="WeakDelegate">
      <MemberType>Property</MemberType>
      <ReturnValue><ReturnType>MonoTouch.Foundation.NSObject</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <value>To be added.</value>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Delegate">
      <MemberType>Property</MemberType>
      <ReturnValue><ReturnType>MonoTouch.Foo.ClientDelegate</ReturnType></ReturnValue>
      <Docs>
        <summary>The delegate.</summary>
        <value>To be added.</value>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Connect">
      <MemberType>Method</MemberType>
      <Attributes><Attribute><AttributeName>MonoTouch.Foundation.Export("connect:completion:")</AttributeName></Attribute></Attributes>
      <ReturnValue><ReturnType>System.Void</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="host" Type="System.String" />
        <Parameter Name="completion" Type="System.Action" />
      </Parameters>
      <Docs>
        <param name="host">The host name.</param>
        <param name="completion">To be added.</param>
        <summary>Connects to the server.</summary>
        <remarks>Uses the default port.</remarks>
      </Docs>
    </Member>
    <Member MemberName="ConnectAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="host" Type="System.String" />
        <Parameter Name="port" Type="System.Int32" />
      </Parameters>
      <Docs>
        <param name="host">To be added.</param>
        <param name="port">To be added.</param>
        <summary>To be added.</summary>
        <returns>To be added.</returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="ConnectAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="host" Type="System.String" />
      </Parameters>
      <Docs>
        <param name="host">To be added.</param>
        <summary>To be added.</summary>
        <returns>To be added.</returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Load">
      <MemberType>Method</MemberType>
      <Attributes><Attribute><AttributeName>MonoTouch.Foundation.Export("load:completion:")</AttributeName></Attribute></Attributes>
      <ReturnValue><ReturnType>System.Void</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="url" Type="System.String" />
        <Parameter Name="completion" Type="System.Action&lt;MonoTouch.Foundation.NSData&gt;" />
      </Parameters>
      <Docs>
        <param name="url">The resource.</param>
        <param name="completion">To be added.</param>
        <summary>To be added.</summary>
        <remarks><para>First.</para><para>Second.</para></remarks>
      </Docs>
    </Member>
    <Member MemberName="LoadAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task&lt;MonoTouch.Foundation.NSData&gt;</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="url" Type="System.String" />
      </Parameters>
      <Docs>
        <param name="url">To be added.</param>
        <summary>To be added.</summary>
        <returns>To be added.</returns>
        <remarks>Authored note.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Fetch">
      <MemberType>Method</MemberType>
      <Attributes><Attribute><AttributeName>MonoTouch.Foundation.Export("fetch:")</AttributeName></Attribute></Attributes>
      <ReturnValue><ReturnType>System.Void</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="completion" Type="MonoTouch.Foo.FetchHandler" />
      </Parameters>
      <Docs>
        <param name="completion">To be added.</param>
        <summary>Fetches.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="FetchDataAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task&lt;MonoTouch.Foo.FetchResult&gt;</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <returns>To be added.</returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Refetch">
      <MemberType>Method</MemberType>
      <Attributes><Attribute><AttributeName>MonoTouch.Foundation.Export("refetch:")</AttributeName></Attribute></Attributes>
      <ReturnValue><ReturnType>System.Void</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="completion" Type="MonoTouch.Foo.FetchHandler" />
      </Parameters>
      <Docs>
        <param name="completion">To be added.</param>
        <summary>Fetches again.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="RefetchAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task&lt;MonoTouch.Foo.FetchResult&gt;</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <returns><para class="improve">Generated by an older run.</para></returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Query">
      <MemberType>Method</MemberType>
      <Attributes><Attribute><AttributeName>MonoTouch.Foundation.Export("query:")</AttributeName></Attribute></Attributes>
      <ReturnValue><ReturnType>System.Void</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="completion" Type="MonoTouch.Foo.QueryHandler" />
      </Parameters>
      <Docs>
        <param name="completion">To be added.</param>
        <summary>Runs a query.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="QueryAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task&lt;MonoTouch.Foo.QueryResult&gt;</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <returns>To be added.</returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Ping">
      <MemberType>Method</MemberType>
      <Attributes><Attribute><AttributeName>MonoTouch.Foundation.Export("ping:")</AttributeName></Attribute></Attributes>
      <ReturnValue><ReturnType>System.Void</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="completion" Type="MonoTouch.Foo.PingHandler" />
      </Parameters>
      <Docs>
        <param name="completion">To be added.</param>
        <summary>Pings.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="PingAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task&lt;MonoTouch.Foo.PingResult&gt;</ReturnType></ReturnValue>
      <Docs>
        <summary>To be added.</summary>
        <returns>The round trip time.</returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="DidConnect">
      <MemberType>Event</MemberType>
      <Docs>
        <summary>To be added.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="ShouldReconnect">
      <MemberType>Property</MemberType>
      <Docs>
        <summary>To be added.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
  </Members>
</Type>
`

const fetchResultXML = `<Type Name="FetchResult" FullName="MonoTouch.Foo.FetchResult">
  <Docs>
    <summary>Holds the fetched data.</summary>
    <remarks>To be added.</remarks>
  </Docs>
  <Members>
    <Member MemberName=".ctor">
      <MemberType>Constructor</MemberType>
      <Parameters>
        <Parameter Name="data" Type="MonoTouch.Foundation.NSData" />
      </Parameters>
      <Docs>
        <param name="data">To be added.</param>
        <summary>To be added.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
  </Members>
</Type>
`

const queryHandlerXML = `<Type Name="QueryHandler" FullName="MonoTouch.Foo.QueryHandler">
  <Docs>
    <summary>To be added.</summary>
    <remarks>To be added.</remarks>
  </Docs>
</Type>
`

const workerXML = `<Type Name="Worker" FullName="MonoTouch.Foo.Worker">
  <Docs>
    <summary>A worker.</summary>
    <remarks>To be added.</remarks>
  </Docs>
  <Members>
    <Member MemberName="Start">
      <MemberType>Method</MemberType>
      <Docs>
        <summary>Starts.</summary>
        <remarks>Call once.</remarks>
      </Docs>
    </Member>
    <Member MemberName="Stop">
      <MemberType>Method</MemberType>
      <Attributes><Attribute><AttributeName>MonoTouch.Foundation.Export("stop:")</AttributeName></Attribute></Attributes>
      <ReturnValue><ReturnType>System.Void</ReturnType></ReturnValue>
      <Parameters>
        <Parameter Name="completion" Type="System.Action" />
      </Parameters>
      <Docs>
        <param name="completion">To be added.</param>
        <summary>Stops.</summary>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
    <Member MemberName="StopAsync">
      <MemberType>Method</MemberType>
      <ReturnValue><ReturnType>System.Threading.Tasks.Task</ReturnType></ReturnValue>
      <Parameters />
      <Docs>
        <summary>To be added.</summary>
        <returns>To be added.</returns>
        <remarks>To be added.</remarks>
      </Docs>
    </Member>
  </Members>
</Type>
`

// fixtureFiles maps unit paths relative to the en directory to content.
var fixtureFiles = map[string]string{
	"MonoTouch.UIKit/UIKeyboard.xml":               keyboardXML,
	"MonoTouch.UIKit/UIKeyboard+Notifications.xml": companionXML,
	"MonoTouch.Foo/Client.xml":                     clientXML,
	"MonoTouch.Foo/FetchResult.xml":                fetchResultXML,
	"MonoTouch.Foo/QueryHandler.xml":               queryHandlerXML,
	"MonoTouch.Foo/Worker.xml":                     workerXML,
}

// setupDocs writes files under a fresh en directory and returns its path.
func setupDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "en")
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func loadManifest(t *testing.T, data string) *metadata.Manifest {
	t.Helper()
	m, err := metadata.Parse([]byte(data))
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	return m
}

// runEngine runs one pass over root with a fresh store.
func runEngine(t *testing.T, root string, model metadata.Model, opts Options) (*Report, error) {
	t.Helper()
	store := docstore.New(docstore.Options{Root: root, Platform: DefaultPlatform})
	defer store.Close()
	return New(model, store, opts).Run(context.Background())
}

// readUnit parses the unit at rel under root.
func readUnit(t *testing.T, root, rel string) *xml.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := xml.Parse(data)
	if err != nil {
		t.Fatalf("parse %s: %v", rel, err)
	}
	return doc
}

// member finds the n-th member named name.
func member(t *testing.T, doc *xml.Document, name string, n int) *xml.Node {
	t.Helper()
	nodes := doc.Find("Type/Members/Member[@MemberName=" + xml.Literal(name) + "]")
	if len(nodes) <= n {
		t.Fatalf("member %s[%d] not found", name, n)
	}
	return nodes[n]
}

// snapshot reads every file under root.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[path] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

// outer returns the serialized child elements of n.
func outer(nodes []*xml.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.OuterXML()
	}
	return out
}
