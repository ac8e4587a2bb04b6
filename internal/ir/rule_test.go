package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleOf_Symmetric(t *testing.T) {
	for a := VAR; a <= SWI; a++ {
		for b := VAR; b <= SWI; b++ {
			assert.Equal(t, RuleOf(a, b), RuleOf(b, a), "%s/%s", a, b)
		}
	}
}

func TestRuleOf_Families(t *testing.T) {
	tests := []struct {
		a, b Tag
		want Rule
	}{
		{VAR, CON, LINK},
		{REF, CON, CALL},
		{REF, DUP, CALL},
		{REF, ERA, VOID},
		{ERA, ERA, VOID},
		{NUM, NUM, VOID},
		{ERA, DUP, ERAS},
		{NUM, CON, ERAS},
		{CON, CON, ANNI},
		{DUP, DUP, ANNI},
		{OPR, OPR, ANNI},
		{SWI, SWI, ANNI},
		{CON, DUP, COMM},
		{OPR, SWI, COMM},
		{NUM, OPR, OPER},
		{NUM, SWI, SWIT},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"/"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, RuleOf(tt.a, tt.b))
		})
	}
}

func TestRuleOf_NodesAnnihilateOnlyWithSameKind(t *testing.T) {
	for a := CON; a <= SWI; a++ {
		for b := CON; b <= SWI; b++ {
			if a == b {
				assert.Equal(t, ANNI, RuleOf(a, b))
			} else {
				assert.Equal(t, COMM, RuleOf(a, b))
			}
		}
	}
}

func TestOrient(t *testing.T) {
	num := NewPort(NUM, 3)
	opr := NewPort(OPR, 8)

	a, b := Orient(opr, num)
	assert.Equal(t, num, a)
	assert.Equal(t, opr, b)

	a, b = Orient(num, opr)
	assert.Equal(t, num, a)
	assert.Equal(t, opr, b)
}

func TestRule_IsHighPriority(t *testing.T) {
	assert.True(t, ANNI.IsHighPriority())
	assert.True(t, ERAS.IsHighPriority())
	assert.False(t, CALL.IsHighPriority())
	assert.False(t, COMM.IsHighPriority())
}
