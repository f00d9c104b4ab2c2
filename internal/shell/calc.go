package shell

import (
	"strconv"
	"strings"
)

// cmdCalc evaluates "a op b", taken inline or prompted for one part at a time.
func cmdCalc(sh *Shell, args string) error {
	var a, op, b string
	if args != "" {
		fields := strings.Fields(args)
		if len(fields) != 3 {
			return noticef(KindMalformedArgument, "Error: expected 'calc <number> <operator> <number>'.")
		}
		a, op, b = fields[0], fields[1], fields[2]
	} else {
		var err error
		if a, err = sh.ask("Enter first number: "); err != nil {
			return err
		}
		if op, err = sh.ask("Enter operator (+, -, *, /): "); err != nil {
			return err
		}
		if b, err = sh.ask("Enter second number: "); err != nil {
			return err
		}
	}

	result, err := calculate(a, op, b)
	if err != nil {
		return err
	}
	sh.printf("Result: %s\n", strconv.FormatFloat(result, 'g', -1, 64))
	return nil
}

// calculate applies one of + - * / to two decimal numbers.
func calculate(a, op, b string) (float64, error) {
	x, err := parseNumber(a)
	if err != nil {
		return 0, err
	}
	y, err := parseNumber(b)
	if err != nil {
		return 0, err
	}
	switch strings.TrimSpace(op) {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return 0, noticef(KindGeneric, "Error: Attempted to divide by zero.")
		}
		return x / y, nil
	default:
		return 0, noticef(KindMalformedArgument, "Error: Invalid operator")
	}
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, noticef(KindGeneric, "Error: '%s' is not a valid number.", strings.TrimSpace(s))
	}
	return v, nil
}

// ask prints a question and reads the answer line.
func (sh *Shell) ask(question string) (string, error) {
	sh.printf("%s", question)
	return sh.term.ReadLine()
}
