package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAndDropsUnrestrictedOperands(t *testing.T) {
	p := And(All(), Cond("x = ?", 1), All())
	assert.Equal(t, "x = ?", p.SQL())
	assert.Equal(t, []interface{}{1}, p.Args())
}

func TestAndParenthesisesEachOperand(t *testing.T) {
	p := And(Cond("x = ?", 1), Or(Cond("y = ?", 2), Cond("z = ?", 3)))
	assert.Equal(t, "(x = ?) AND ((y = ?) OR (z = ?))", p.SQL())
	assert.Equal(t, []interface{}{1, 2, 3}, p.Args())
}

func TestOrWithUnrestrictedOperandIsUnrestricted(t *testing.T) {
	p := Or(Cond("x = ?", 1), All())
	assert.True(t, p.Empty())
	assert.Equal(t, "TRUE", p.SQL())
}

func TestAndOfNothingMatchesAll(t *testing.T) {
	assert.True(t, And().Empty())
	assert.True(t, And(All(), All()).Empty())
}

func TestNoneInsideAndExcludesEverything(t *testing.T) {
	p := And(Cond("x = ?", 1), None())
	assert.Equal(t, "(x = ?) AND (FALSE)", p.SQL())
}

func TestSingleOperandIsNotWrapped(t *testing.T) {
	p := Or(Cond("x = ?", 1))
	assert.Equal(t, "x = ?", p.SQL())
}
