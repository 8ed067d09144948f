package imapfilter

import (
	"testing"

	"git.schidlow.ski/gitea/tb2imapfilter/pkg/msgfilter"
	"github.com/stretchr/testify/assert"
)

func TestConditionContains(t *testing.T) {
	tr := NewTranslator(nil)

	expr, err := tr.Condition(msgfilter.Condition{Field: "subject", Op: "contains", Value: "invoice"})
	assert.NoError(t, err)
	assert.Equal(t, "box.INBOX:contain_subject('invoice')", expr.render("box.INBOX", 1))
}

func TestConditionContainsEscapesQuotes(t *testing.T) {
	tr := NewTranslator(nil)

	expr, err := tr.Condition(msgfilter.Condition{Field: "subject", Op: "contains", Value: "it's"})
	assert.NoError(t, err)
	assert.Equal(t, `box.INBOX:contain_subject('it\'s')`, expr.render("box.INBOX", 1))
}

func TestConditionBeginsWithQuotesRegex(t *testing.T) {
	tr := NewTranslator(nil)

	expr, err := tr.Condition(msgfilter.Condition{Field: "from", Op: "begins with", Value: "news.example"})
	assert.NoError(t, err)
	assert.Equal(t, `box.INBOX:match_from('^news\.example.*')`, expr.render("box.INBOX", 1))
}

func TestConditionIsAndEndsWith(t *testing.T) {
	tr := NewTranslator(nil)

	expr, err := tr.Condition(msgfilter.Condition{Field: "from", Op: "is", Value: "a@example.com"})
	assert.NoError(t, err)
	assert.Equal(t, `box.INBOX:match_from('^a@example\.com$')`, expr.render("box.INBOX", 1))

	expr, err = tr.Condition(msgfilter.Condition{Field: "subject", Op: "ends with", Value: "[spam]"})
	assert.NoError(t, err)
	assert.Equal(t, `box.INBOX:match_subject('.*\[spam\]$')`, expr.render("box.INBOX", 1))
}

func TestConditionAllAddresses(t *testing.T) {
	tr := NewTranslator(nil)

	expr, err := tr.Condition(msgfilter.Condition{Field: "all addresses", Op: "contains", Value: "example.com"})
	assert.NoError(t, err)

	comb, ok := expr.(Combinator)
	assert.True(t, ok)
	assert.Equal(t, sepOr, comb.Sep)
	assert.Equal(t, 4, len(comb.Exprs))
	assert.Equal(t, MethodCall{Call: "contain_from('example.com')"}, comb.Exprs[0])
	assert.Equal(t, MethodCall{Call: "contain_bcc('example.com')"}, comb.Exprs[3])
}

func TestConditionBeginsWithEscapesBackslash(t *testing.T) {
	tr := NewTranslator(nil)

	expr, err := tr.Condition(msgfilter.Condition{Field: "subject", Op: "begins with", Value: `a\b`})
	assert.NoError(t, err)
	assert.Equal(t, `box.INBOX:match_subject('^a\\b.*')`, expr.render("box.INBOX", 1))
	assert.NoError(t, CheckSyntax("msgs = "+expr.render("box.INBOX", 1)))
}

func TestConditionSize(t *testing.T) {
	tr := NewTranslator(nil)

	expr, err := tr.Condition(msgfilter.Condition{Field: "size", Op: "is greater than", Value: "100000"})
	assert.NoError(t, err)
	assert.Equal(t, "box.INBOX:is_larger(100000)", expr.render("box.INBOX", 1))

	expr, err = tr.Condition(msgfilter.Condition{Field: "size", Op: "is less than", Value: "42"})
	assert.NoError(t, err)
	assert.Equal(t, "box.INBOX:is_smaller(42)", expr.render("box.INBOX", 1))
}

func TestConditionSizeRejectsNonNumericValue(t *testing.T) {
	tr := NewTranslator(nil)

	_, err := tr.Condition(msgfilter.Condition{Field: "size", Op: "is greater than", Value: "big"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = tr.Condition(msgfilter.Condition{Field: "size", Op: "is less than", Value: "10)) msgs:delete_messages(("})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestConditionUnsupported(t *testing.T) {
	tr := NewTranslator(nil)

	_, err := tr.Condition(msgfilter.Condition{Field: "priority", Op: "is", Value: "high"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = tr.Condition(msgfilter.Condition{Field: "all addresses", Op: "is greater than", Value: "1"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestConditionCustomMapping(t *testing.T) {
	tr := NewTranslator(&Mappings{
		Conditions: []ConditionMapping{
			{Field: "x-spam-status", Op: "contains", Call: "contain_field('X-Spam-Status', '%s')"},
		},
	})

	expr, err := tr.Condition(msgfilter.Condition{Field: "X-Spam-Status", Op: "contains", Value: "YES"})
	assert.NoError(t, err)
	assert.Equal(t, "box.INBOX:contain_field('X-Spam-Status', 'YES')", expr.render("box.INBOX", 1))
}

func TestConditionCustomMappingWithoutValueSlot(t *testing.T) {
	tr := NewTranslator(&Mappings{
		Conditions: []ConditionMapping{
			{Field: "status", Op: "is unread", Call: "is_unseen()"},
		},
	})

	expr, err := tr.Condition(msgfilter.Condition{Field: "status", Op: "is unread"})
	assert.NoError(t, err)
	assert.Equal(t, "box.INBOX:is_unseen()", expr.render("box.INBOX", 1))
	assert.NoError(t, CheckSyntax("msgs = "+expr.render("box.INBOX", 1)))
}

func TestActionWithoutParameter(t *testing.T) {
	tr := NewTranslator(nil)
	accounts := NewAccountSet()

	stmt, err := tr.Action(msgfilter.Action{Type: "Delete"}, accounts)
	assert.NoError(t, err)
	assert.Equal(t, "delete_messages()", stmt)

	stmt, err = tr.Action(msgfilter.Action{Type: "Mark read"}, accounts)
	assert.NoError(t, err)
	assert.Equal(t, "mark_seen()", stmt)

	stmt, err = tr.Action(msgfilter.Action{Type: "Mark flagged"}, accounts)
	assert.NoError(t, err)
	assert.Equal(t, "mark_flagged()", stmt)
}

func TestActionMoveToFolder(t *testing.T) {
	tr := NewTranslator(nil)
	accounts := NewAccountSet()

	stmt, err := tr.Action(msgfilter.Action{
		Type:  "Move to folder",
		Value: "imap://user@mail.example.com/Archive/2024",
	}, accounts)
	assert.NoError(t, err)
	assert.Equal(t, "move_messages(example['Archive/2024'])", stmt)
	assert.Equal(t, 1, len(accounts.Accounts()))
	assert.Equal(t, "mail.example.com", accounts.Accounts()[0].Server)
}

func TestActionCopyToFolder(t *testing.T) {
	tr := NewTranslator(nil)
	accounts := NewAccountSet()

	stmt, err := tr.Action(msgfilter.Action{
		Type:  "Copy to folder",
		Value: "imap://user@mail.example.com/Keep",
	}, accounts)
	assert.NoError(t, err)
	assert.Equal(t, "copy_messages(example['Keep'])", stmt)
}

func TestActionBadFolderValue(t *testing.T) {
	tr := NewTranslator(nil)

	_, err := tr.Action(msgfilter.Action{Type: "Move to folder", Value: "mailbox://local/Archive"}, NewAccountSet())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestActionUnsupported(t *testing.T) {
	tr := NewTranslator(nil)

	_, err := tr.Action(msgfilter.Action{Type: "Forward", Value: "a@example.com"}, NewAccountSet())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestActionCustomMapping(t *testing.T) {
	tr := NewTranslator(&Mappings{
		Actions: []ActionMapping{
			{Action: "Forward", Statement: "forward_to('%s')"},
			{Action: "Mark read", Statement: "mark_answered()"},
		},
	})
	accounts := NewAccountSet()

	stmt, err := tr.Action(msgfilter.Action{Type: "Forward", Value: "a@example.com"}, accounts)
	assert.NoError(t, err)
	assert.Equal(t, "forward_to('a@example.com')", stmt)

	// custom mappings win over built-ins
	stmt, err = tr.Action(msgfilter.Action{Type: "Mark read"}, accounts)
	assert.NoError(t, err)
	assert.Equal(t, "mark_answered()", stmt)
}

func TestEffectiveMappings(t *testing.T) {
	extra := &Mappings{
		Actions: []ActionMapping{{Action: "Forward", Statement: "forward_to('%s')"}},
	}
	eff := NewTranslator(extra).Effective()

	assert.Contains(t, eff.Conditions, ConditionMapping{Field: "subject", Op: "contains", Call: "contain_subject('%s')"})
	assert.Contains(t, eff.Conditions, ConditionMapping{Field: "size", Op: "is less than", Call: "is_smaller(%s)"})
	assert.Contains(t, eff.Actions, ActionMapping{Action: "Delete", Statement: "delete_messages()"})
	assert.Equal(t, ActionMapping{Action: "Forward", Statement: "forward_to('%s')"}, eff.Actions[len(eff.Actions)-1])
}
