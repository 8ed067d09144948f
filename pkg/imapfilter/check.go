package imapfilter

import (
	lua "github.com/yuin/gopher-lua"
)

// CheckSyntax compiles the script with a Lua parser without executing
// anything, so the imapfilter globals it references do not need to exist.
func CheckSyntax(script string) error {
	l := lua.NewState()
	defer l.Close()

	_, err := l.LoadString(script)
	return err
}
