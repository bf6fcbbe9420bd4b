// Package jshost is a render host for Go programs compiled to WebAssembly and
// running in a page that has loaded Chart.js. It is only built for js/wasm.
//
// Documents are turned into live objects with new Function("return " + text),
// which is what makes function leaves callable. The mutation hook is looked up
// on globalThis when the chart is constructed:
//
//	r := render.NewRenderer(jshost.New(), nil)
//	err := r.RenderMutate(ctx, chart)
//
// An exception thrown by Chart.js or the hook comes back as a CONSTRUCT_FAILED
// error whose cause is the thrown js.Error, unchanged:
//
//	var thrown js.Error
//	if errors.As(err, &thrown) {
//	    msg := thrown.Get("message").String()
//	}
package jshost
