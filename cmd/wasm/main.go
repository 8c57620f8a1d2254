//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/inamate/canvas-go/internal/engine"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(defaultWidth, defaultHeight)

	// Create the engine API object
	canvasEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	canvasEngine.Set("loadDocument", js.FuncOf(loadDocument))
	canvasEngine.Set("updateDocument", js.FuncOf(updateDocument))
	canvasEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	canvasEngine.Set("setSelection", js.FuncOf(setSelection))
	canvasEngine.Set("selectInRect", js.FuncOf(selectInRect))
	canvasEngine.Set("reorder", js.FuncOf(reorder))
	canvasEngine.Set("remove", js.FuncOf(remove))

	// --- Queries (frontend ← backend) ---
	canvasEngine.Set("render", js.FuncOf(render))
	canvasEngine.Set("hitTest", js.FuncOf(hitTest))
	canvasEngine.Set("hitTestDeep", js.FuncOf(hitTestDeep))
	canvasEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	canvasEngine.Set("getCanvasInfo", js.FuncOf(getCanvasInfo))
	canvasEngine.Set("getDocument", js.FuncOf(getDocument))
	canvasEngine.Set("getSelection", js.FuncOf(getSelection))

	// Register on global scope
	js.Global().Set("canvasEngine", canvasEngine)

	// Signal that WASM is ready
	js.Global().Set("canvasWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

// stringsArg reads a JS array of strings. Anything else yields nil.
func stringsArg(v js.Value) []string {
	if v.Type() != js.TypeObject {
		return nil
	}
	ids := make([]string, v.Length())
	for i := range ids {
		ids[i] = v.Index(i).String()
	}
	return ids
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}
	return result(eng.LoadDocument(args[0].String()))
}

func updateDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}
	return result(eng.UpdateDocument(args[0].String()))
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	eng.LoadSampleDocument()
	return result(nil)
}

func setSelection(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		eng.SetSelection(nil)
		return nil
	}
	eng.SetSelection(stringsArg(args[0]))
	return nil
}

func selectInRect(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return nil
	}
	eng.SelectInRect(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float())
	return js.ValueOf(eng.GetSelection())
}

// reorder(id, op, index?, intersecting?)
func reorder(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf(map[string]any{"error": "reorder needs an id and an op"})
	}
	index := -1
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		index = args[2].Int()
	}
	intersecting := len(args) > 3 && args[3].Truthy()
	return result(eng.Reorder(args[0].String(), args[1].String(), index, intersecting))
}

func remove(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	return js.ValueOf(eng.Remove(stringsArg(args[0])...))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func hitTestDeep(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("null")
	}
	return js.ValueOf(eng.HitTestDeep(args[0].Float(), args[1].Float()))
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getCanvasInfo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetCanvasInfo())
}

func getDocument(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetDocument())
}

func getSelection(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelection())
}
