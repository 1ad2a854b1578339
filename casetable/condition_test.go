package casetable

import (
	"errors"

	"gopkg.in/check.v1"
)

func (s *Suite) Test_Operator_Negate(c *check.C) {
	for _, op := range []Operator{Less, LessEqual, Greater, GreaterEqual, Equal, NotEqual} {
		c.Check(op.Negate().Negate(), check.Equals, op)
		c.Check(op.Negate(), check.Not(check.Equals), op)
		c.Check(op.Mirror().Mirror(), check.Equals, op)
	}
	c.Check(Less.Negate(), check.Equals, GreaterEqual)
	c.Check(Less.Mirror(), check.Equals, Greater)
	c.Check(Equal.Mirror(), check.Equals, Equal)
	c.Check(func() { Operator("=~").Negate() }, check.PanicMatches, `invalid operator "=~"`)
}

func (s *Suite) Test_Split(c *check.C) {
	conds, err := Split("alt > 42 && score > 900", 1)

	c.Check(err, check.IsNil)
	c.Check(conds, check.DeepEquals, []AtomicCondition{
		{"alt", Greater, "42", 1},
		{"score", Greater, "900", 1}})
}

func (s *Suite) Test_Split__whitespace_and_or(c *check.C) {
	conds, err := Split("  a\t<= 1 ||\nb != -2  &&  c == 3", 0)

	c.Check(err, check.IsNil)
	c.Check(conds, check.DeepEquals, []AtomicCondition{
		{"a", LessEqual, "1", 0},
		{"b", NotEqual, "-2", 0},
		{"c", Equal, "3", 0}})
}

// Parentheses are not interpreted; they stay part of the operands.
func (s *Suite) Test_Split__parentheses_are_flat(c *check.C) {
	conds, err := Split("(a > 1 || b > 2) && c < 3", 0)

	c.Check(err, check.IsNil)
	c.Check(conds, check.DeepEquals, []AtomicCondition{
		{"(a", Greater, "1", 0},
		{"b", Greater, "2)", 0},
		{"c", Less, "3", 0}})
}

func (s *Suite) Test_Split__malformed(c *check.C) {
	test := func(guard, msg string) {
		_, err := Split(guard, 0)
		c.Check(errors.Is(err, ErrMalformedGuard), check.Equals, true)
		c.Check(err, check.ErrorMatches, msg)
	}

	test("ok", `malformed guard in guard 1 \("ok"\): "ok" is not .*`)
	test("", `malformed guard .*: "" is not .*`)
	test("a > 1 &&", `malformed guard .*: "" is not .*`)
	test("a > 1 b", `malformed guard .*: "a > 1 b" is not .*`)
	test("a = 1", `malformed guard .*: "a = 1" is not .*`)
	test("x>0", `malformed guard .*: "x>0" is not .*`)
}

func (s *Suite) Test_SplitAll(c *check.C) {
	conds, err := SplitAll([]string{"score > 2600", "alt > 42 && score > 900"})

	c.Check(err, check.IsNil)
	c.Check(conds, check.DeepEquals, []AtomicCondition{
		{"score", Greater, "2600", 0},
		{"alt", Greater, "42", 1},
		{"score", Greater, "900", 1}})
}
