package emitter

import (
	"errors"

	"gopkg.in/check.v1"

	"github.com/rillig/gocase/casetable"
	"github.com/rillig/gocase/locator"
)

func (s *Suite) Test_Emit(c *check.C) {
	fn, err := locator.Locate("../testdata/bonus/bonus.go", nil, "Bonus")
	c.Assert(err, check.IsNil)
	res, err := casetable.Analyze(fn.Parameters(), fn.FlatGuards())
	c.Assert(err, check.IsNil)
	samples, err := LoadSamples("../testdata/bonus/samples.yaml")
	c.Assert(err, check.IsNil)

	out, err := Emit(fn, res, samples)

	c.Assert(err, check.IsNil)
	c.Check(out.Skipped, check.Equals, 1)
	c.Check(out.Tests, check.DeepEquals, []string{
		"Test_Bonus__LowScoreYoung",
		"Test_Bonus__LowScoreOld",
		"Test_Bonus__MediumScoreOld",
		"Test_Bonus__HighScoreOld"})
	c.Check(string(out.Code), check.Equals, normalize(`
		package bonus

		// Generated by gocase from bonus.go.
		// Replace each TODO with an assertion of the expected result.

		import "testing"

		func Test_Bonus__LowScoreYoung(t *testing.T) {
			// Case 1 of Bonus:
			//  score > 2600: false
			//  score > 900: false
			//  alt > 42: false
			//  score in (-Inf, 900]
			//  alt in (-Inf, 42]
			//  if score > 2600: false
			//  if alt > 42 && score > 900: false
			var score int = 500
			var alt int = 20

			got := Bonus(score, alt)

			t.Errorf("TODO: assert the expected result, got %v", got)
		}

		func Test_Bonus__LowScoreOld(t *testing.T) {
			// Case 2 of Bonus:
			//  score > 2600: false
			//  score > 900: false
			//  alt > 42: true
			//  score in (-Inf, 900]
			//  alt in (42, +Inf)
			//  if score > 2600: false
			//  if alt > 42 && score > 900: false
			var score int = 500
			var alt int = 43

			got := Bonus(score, alt)

			t.Errorf("TODO: assert the expected result, got %v", got)
		}

		func Test_Bonus__MediumScoreOld(t *testing.T) {
			// Case 4 of Bonus:
			//  score > 2600: false
			//  score > 900: true
			//  alt > 42: true
			//  score in (900, 2600]
			//  alt in (42, +Inf)
			//  if score > 2600: false
			//  if alt > 42 && score > 900: true
			var score int = 2600
			var alt int = 60

			got := Bonus(score, alt)

			t.Errorf("TODO: assert the expected result, got %v", got)
		}

		func Test_Bonus__HighScoreOld(t *testing.T) {
			// Case 6 of Bonus:
			//  score > 2600: true
			//  score > 900: true
			//  alt > 42: true
			//  score in (2600, +Inf)
			//  alt in (42, +Inf)
			//  if score > 2600: true
			//  if alt > 42 && score > 900: true
			var score int = 3000
			var alt int = 43

			got := Bonus(score, alt)

			t.Errorf("TODO: assert the expected result, got %v", got)
		}
		`))
}

func (s *Suite) Test_Emit__method(c *check.C) {
	fn, res := s.analyze(c, "Withdraw")
	samples := Samples{[]Sample{{1, "Exact", map[string]string{"amount": "100", "fee": "3"}}}}

	out, err := Emit(fn, res, samples)

	c.Assert(err, check.IsNil)
	c.Check(out.Tests, check.DeepEquals, []string{"Test_Account_Withdraw__Exact"})
	c.Check(string(out.Code), check.Equals, normalize(`
		package game

		// Generated by gocase from game.go.
		// Replace each TODO with an assertion of the expected result.

		import "testing"

		func Test_Account_Withdraw__Exact(t *testing.T) {
			// Case 1 of Account.Withdraw:
			//  amount <= 0: false
			//  amount != 100: false
			//  fee < 0: false
			//  amount in [100, 100]
			//  fee in [0, +Inf)
			//  if 0 >= amount || fee < 0: false
			//  if amount != 100: false
			var recv Account
			var amount float64 = 100
			var fee int = 3

			got0, got1 := recv.Withdraw(amount, fee)

			t.Errorf("TODO: assert the expected result, got %v, %v", got0, got1)
		}
		`))
}

func (s *Suite) Test_Emit__no_results(c *check.C) {
	src := []byte("package p\n\nfunc Log(level int, msgs ...string) {\n\tif level >= 3 {\n\t}\n}\n")
	fn, err := locator.Locate("log.go", src, "Log")
	c.Assert(err, check.IsNil)
	res, err := casetable.Analyze(fn.Parameters(), fn.FlatGuards())
	c.Assert(err, check.IsNil)
	samples := Samples{[]Sample{{2, "Error", map[string]string{"level": "4"}}}}

	out, err := Emit(fn, res, samples)

	c.Assert(err, check.IsNil)
	c.Check(string(out.Code), check.Equals, normalize(`
		package p

		// Generated by gocase from log.go.
		// Replace each TODO with an assertion of the expected result.

		import "testing"

		func Test_Log__Error(t *testing.T) {
			// Case 2 of Log:
			//  level >= 3: true
			//  level in [3, +Inf)
			//  if level >= 3: true
			var level int = 4
			var msgs []string

			Log(level, msgs...)

			t.Errorf("TODO: assert the expected effect")
		}
		`))
}

func (s *Suite) Test_Emit__invalid_samples(c *check.C) {
	fn, res := s.analyze(c, "Bonus")
	samples := Samples{[]Sample{{2, "LowScoreOld", map[string]string{"score": "1000", "alt": "43"}}}}

	out, err := Emit(fn, res, samples)

	c.Check(out, check.IsNil)
	var verr *ValidationError
	c.Assert(errors.As(err, &verr), check.Equals, true)
	c.Check(verr.Problems, check.DeepEquals, []Problem{
		{2, "LowScoreOld", "score: 1000 is not in (-Inf, 900]"}})
}

// The variables of the generated test don't collide with the parameters
// of the tested function, nor with the function itself.
func (s *Suite) Test_Emit__name_clashes(c *check.C) {
	src := []byte(normalize(`
		package heat

		func Heat(t int, got int, Heat float64) int {
			if t > 30 {
				return got
			}
			return 0
		}

		type Heater struct{}

		func (h *Heater) Set(recv int, t int) (int, bool) {
			if recv > 0 {
				return t, true
			}
			return 0, false
		}
		`))

	emit := func(funcName string, sample Sample) string {
		fn, err := locator.Locate("heat.go", src, funcName)
		c.Assert(err, check.IsNil)
		res, err := casetable.Analyze(fn.Parameters(), fn.FlatGuards())
		c.Assert(err, check.IsNil)
		out, err := Emit(fn, res, Samples{[]Sample{sample}})
		c.Assert(err, check.IsNil)
		return string(out.Code)
	}

	c.Check(
		emit("Heat", Sample{2, "Hot", map[string]string{"t": "31", "got": "0", "Heat": "1.5"}}),
		check.Equals, normalize(`
		package heat

		// Generated by gocase from heat.go.
		// Replace each TODO with an assertion of the expected result.

		import "testing"

		func Test_Heat__Hot(t2 *testing.T) {
			// Case 2 of Heat:
			//  t > 30: true
			//  t in (30, +Inf)
			//  got in (-Inf, +Inf)
			//  Heat in (-Inf, +Inf)
			//  if t > 30: true
			var t int = 31
			var got int = 0
			var HeatArg float64 = 1.5

			got2 := Heat(t, got, HeatArg)

			t2.Errorf("TODO: assert the expected result, got %v", got2)
		}
		`))

	c.Check(
		emit("Set", Sample{1, "Cold", map[string]string{"recv": "0", "t": "5"}}),
		check.Equals, normalize(`
		package heat

		// Generated by gocase from heat.go.
		// Replace each TODO with an assertion of the expected result.

		import "testing"

		func Test_Heater_Set__Cold(t2 *testing.T) {
			// Case 1 of Heater.Set:
			//  recv > 0: false
			//  recv in (-Inf, 0]
			//  t in (-Inf, +Inf)
			//  if recv > 0: false
			var recv2 Heater
			var recv int = 0
			var t int = 5

			got0, got1 := recv2.Set(recv, t)

			t2.Errorf("TODO: assert the expected result, got %v, %v", got0, got1)
		}
		`))
}

func (s *Suite) Test_names_free(c *check.C) {
	n := names{"t": true, "t2": true}

	c.Check(n.free("t"), check.Equals, "t3")
	c.Check(n.free("got"), check.Equals, "got")
	c.Check(n.free("got"), check.Equals, "got2")
}
