// Package lua runs glyph grid applications written in Lua.
//
// A script defines global callbacks that the frame loop invokes:
//
//	function init()   end   -- optional, once after loading
//	function update() end   -- optional, every frame after input is gathered
//	function draw()   end   -- required, every frame on a cleared grid
//	function quit()   end   -- optional, once when the loop stops
//
// During the callbacks the script reaches the frame through the grid,
// input and color modules:
//
//	function draw()
//	    local msg = "Hello world!"
//	    local col = math.floor((grid.width() - #msg) / 2)
//	    grid.put_str(col, math.floor(grid.height() / 2), msg, color.rgb(255, 255, 0))
//	end
//
// # Sandbox
//
// States open only the base, table, string and math libraries. Functions
// that load code (dofile, loadfile, load, loadstring, require, module) are
// removed and print is routed to the application logger.
//
// Each callback runs under a time limit (DefaultCallTimeout) enforced
// through the state's context; a runaway loop fails with
// ErrExecutionTimeout instead of freezing the frame loop.
//
// # Reloading
//
// With WithWatch the script file is watched with fsnotify. A change is
// picked up at the start of the next Update: the new version is loaded
// into a fresh state and swapped in only if it loads cleanly, otherwise
// the previous version keeps running and the error is reported through
// App.Err.
//
// # Errors
//
// Errors raised by callbacks are wrapped in ScriptError, logged once per
// distinct message and never stop the frame loop.
package lua
