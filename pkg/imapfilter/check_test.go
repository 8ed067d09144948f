package imapfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSyntaxAcceptsScript(t *testing.T) {
	script := `example = IMAP {
    server = 'mail.example.com',
    username = 'USERNAME',
    password = 'PASSWORD',
    ssl = 'auto'
}

msgs = (example.INBOX:contain_subject('a')
        * example.INBOX:contain_from('b'))
msgs:delete_messages()
`
	assert.NoError(t, CheckSyntax(script))
}

func TestCheckSyntaxDoesNotExecute(t *testing.T) {
	// IMAP does not exist in the bare Lua state; compiling must not care.
	assert.NoError(t, CheckSyntax("x = IMAP { server = 's' }"))
}

func TestCheckSyntaxRejectsGarbage(t *testing.T) {
	assert.Error(t, CheckSyntax("msgs = = ="))
	assert.Error(t, CheckSyntax("if true then"))
}
