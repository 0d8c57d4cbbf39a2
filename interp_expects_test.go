package main

// @generated from interp_test.go

import "time"

//go:generate go run scripts/gen_interp_expects.go -- interp_test.go interp_expects_test.go

func withInterpOptions(opts ...InterpOption) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.withOptions(opts...)
	}
}

func withInterpLimits(lim Limits) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.withLimits(lim)
	}
}

func withInterpStack(values ...Value) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.withStack(values...)
	}
}

func withInterpInput(input string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.withInput(input)
	}
}

func withInterpNamedInput(name string, input string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.withNamedInput(name, input)
	}
}

func withInterpFile(name string, content string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.withFile(name, content)
	}
}

func withInterpTimeout(timeout time.Duration) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.withTimeout(timeout)
	}
}

func expectInterpError(err error) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectError(err)
	}
}

func expectInterpReports(codes ...Code) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectReports(codes...)
	}
}

func expectInterpStack(values ...Value) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectStack(values...)
	}
}

func expectInterpStrings(values ...string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectStrings(values...)
	}
}

func expectInterpReturns(values ...Value) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectReturns(values...)
	}
}

func expectInterpOutput(output string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectOutput(output)
	}
}

func expectInterpVariable(name string, value Value) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectVariable(name, value)
	}
}

func expectInterpNoVariable(name string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectNoVariable(name)
	}
}

func expectInterpWord(name string, body string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectWord(name, body)
	}
}

func expectInterpNoWord(name string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectNoWord(name)
	}
}

func expectInterpScopeDepth(depth int) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectScopeDepth(depth)
	}
}

func expectInterpFunc(expect func(t testingT, run *interpRun)) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectFunc(expect)
	}
}

func expectInterpDump(dump string) func(interpTestCase) interpTestCase {
	return func(it interpTestCase) interpTestCase {
		return it.expectDump(dump)
	}
}
