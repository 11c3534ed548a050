package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/jonwraymond/toolmemo/memo"
	"github.com/jonwraymond/toolmemo/observe"
)

var (
	errNegative = errors.New("argument must not be negative")
	errOddArgs  = errors.New("power takes BASE EXP pairs")
)

func cloneInt(b *big.Int) *big.Int {
	return new(big.Int).Set(b)
}

func demos() []demo {
	return []demo{
		{
			name:            "square",
			usage:           "memoized n*n",
			argsUsage:       "N...",
			defaultCapacity: 3,
			run:             runSquare,
		},
		{
			name:            "power",
			usage:           "memoized base^exp",
			argsUsage:       "BASE EXP [BASE EXP...]",
			defaultCapacity: 4,
			run:             runPower,
		},
		{
			name:            "factorial",
			usage:           "recursive memoized n!",
			argsUsage:       "N...",
			defaultCapacity: 3,
			run:             runFactorial,
		},
	}
}

func runSquare(ctx context.Context, e *env, args []int) error {
	fn := observe.Wrap(e.mw, observe.FuncMeta{Name: "square"}, func(_ context.Context, a memo.Args) (int, error) {
		n := a.Positional[0].(int)
		return n * n, nil
	})
	m, err := memo.New(e.config("square"), fn)
	if err != nil {
		return err
	}

	for _, n := range args {
		v, err := m.Call(ctx, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "square(%d) = %d\n", n, v)
	}
	e.report(ctx, "square", m)
	return nil
}

func runPower(ctx context.Context, e *env, args []int) error {
	if len(args)%2 != 0 {
		return errOddArgs
	}

	fn := observe.Wrap(e.mw, observe.FuncMeta{Name: "power"}, func(_ context.Context, a memo.Args) (*big.Int, error) {
		base, exp := a.Positional[0].(int), a.Positional[1].(int)
		if exp < 0 {
			return nil, fmt.Errorf("exponent %d: %w", exp, errNegative)
		}
		return new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(exp)), nil), nil
	})
	m, err := memo.New(e.config("power"), fn)
	if err != nil {
		return err
	}
	m.WithClone(cloneInt)

	for i := 0; i < len(args); i += 2 {
		v, err := m.Call(ctx, args[i], args[i+1])
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "power(%d, %d) = %s\n", args[i], args[i+1], v)
	}
	e.report(ctx, "power", m)
	return nil
}

func runFactorial(ctx context.Context, e *env, args []int) error {
	var m *memo.Memo[*big.Int]
	fn := observe.Wrap(e.mw, observe.FuncMeta{Name: "factorial"}, func(ctx context.Context, a memo.Args) (*big.Int, error) {
		n := a.Positional[0].(int)
		switch {
		case n < 0:
			return nil, fmt.Errorf("factorial(%d): %w", n, errNegative)
		case n <= 1:
			return big.NewInt(1), nil
		}
		prev, err := m.Call(ctx, n-1)
		if err != nil {
			return nil, err
		}
		return prev.Mul(prev, big.NewInt(int64(n))), nil
	})

	m, err := memo.New(e.config("factorial"), fn)
	if err != nil {
		return err
	}
	m.WithClone(cloneInt)

	for _, n := range args {
		v, err := m.Call(ctx, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "factorial(%d) = %s\n", n, v)
	}
	e.report(ctx, "factorial", m)
	return nil
}
