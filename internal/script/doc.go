// Package script runs user Lua hooks in a sandboxed interpreter.
//
// A script may define any of these globals:
//
//	function on_commit(id, content, correct) end
//	function on_cursor(id) end
//	function on_complete(stats) end  -- stats.units, stats.committed, stats.correct, stats.incorrect
//
// Only the base, table, string and math libraries are available; file,
// OS, module loading and code loading functions are removed. A script can
// log through sensetype.log(level, message).
package script
