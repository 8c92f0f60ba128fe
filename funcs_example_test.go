package qubit_test

import (
	"fmt"

	"github.com/zephyrtronium/qubit"
)

func ExampleBuiltin() {
	sin := qubit.Builtin("sin")
	fmt.Println(sin(90), sin(-90))
	fmt.Println(qubit.Builtin("nope") == nil)

	// Output:
	// 1 -1
	// true
}

func ExampleEvalText() {
	r := qubit.EvalText("x = 5\nx + 3\nsq(n) = n * n\nsq(x)\n1 TIME::HOUR to TIME::MINUTE")
	for _, l := range r.Lines {
		fmt.Printf("%-28s %s\n", l.Source, l.Output)
	}
	fmt.Println("total", qubit.DefaultFormat.Number(r.Total))

	// Output:
	// x = 5                        5
	// x + 3                        8
	// sq(n) = n * n                -
	// sq(x)                        25
	// 1 TIME::HOUR to TIME::MINUTE 60
	// total 98
}
