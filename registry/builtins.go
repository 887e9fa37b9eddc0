package registry

import (
	"fmt"

	"github.com/fluentcore/ftl/locale"
)

// NewDefaultRegistry builds a frozen NUMBER/DATETIME/CURRENCY registry;
// every Bundle builds its own and starts from it (copy-on-write: a Bundle
// only clones it once add_function is actually called). oracle supplies the locale-aware
// formatting behind all three built-ins.
func NewDefaultRegistry(oracle locale.Oracle) *Registry {
	r := New()
	RegisterBuiltins(r, oracle)
	r.Freeze()
	return r
}

// RegisterBuiltins adds NUMBER, DATETIME, and CURRENCY to r using oracle.
// Exposed separately from NewDefaultRegistry so a caller building a custom
// (non-frozen) registry can still opt into the built-ins.
func RegisterBuiltins(r *Registry, oracle locale.Oracle) {
	must(r.Register(Signature{
		FTLName:         "NUMBER",
		PositionalArity: 2,
		InjectLocale:    true,
		ParamMapping: []ParamMapping{
			{FTLName: "minimumFractionDigits", NativeName: "min_frac"},
			{FTLName: "maximumFractionDigits", NativeName: "max_frac"},
			{FTLName: "minimumIntegerDigits", NativeName: "min_int"},
			{FTLName: "useGrouping", NativeName: "use_grouping"},
		},
	}, numberBuiltin(oracle)))

	must(r.Register(Signature{
		FTLName:         "DATETIME",
		PositionalArity: 2,
		InjectLocale:    true,
		ParamMapping: []ParamMapping{
			{FTLName: "dateStyle", NativeName: "date_style"},
			{FTLName: "pattern", NativeName: "pattern"},
		},
	}, datetimeBuiltin(oracle)))

	must(r.Register(Signature{
		FTLName:         "CURRENCY",
		PositionalArity: 2,
		InjectLocale:    true,
		ParamMapping: []ParamMapping{
			{FTLName: "currencyCode", NativeName: "currency_code"},
			{FTLName: "displaySymbol", NativeName: "display_symbol"},
		},
	}, currencyBuiltin(oracle)))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func numberBuiltin(oracle locale.Oracle) Callable {
	return func(positional []Value, named map[string]Value, loc string) (Value, error) {
		if len(positional) < 1 {
			return nil, fmt.Errorf("NUMBER: expected 1 positional argument, got %d", len(positional))
		}
		d, ok := AsDecimal(positional[0])
		if !ok {
			return nil, fmt.Errorf("NUMBER: argument is not numeric")
		}

		opts := locale.DefaultNumberOptions()
		if v, ok := intArg(named, "minimumFractionDigits"); ok {
			opts.MinimumFractionDigits = v
		}
		if v, ok := intArg(named, "maximumFractionDigits"); ok {
			opts.MaximumFractionDigits = v
		}
		if v, ok := intArg(named, "minimumIntegerDigits"); ok {
			opts.MinimumIntegerDigits = v
		}
		if v, ok := boolArg(named, "useGrouping"); ok {
			opts.UseGrouping = v
		}

		formatted, err := oracle.FormatNumber(loc, d, opts)
		if err != nil {
			return nil, err
		}
		return FluentNumber{Value: d, Formatted: formatted, Precision: opts.MaximumFractionDigits}, nil
	}
}

func currencyBuiltin(oracle locale.Oracle) Callable {
	return func(positional []Value, named map[string]Value, loc string) (Value, error) {
		if len(positional) < 1 {
			return nil, fmt.Errorf("CURRENCY: expected 1 positional argument, got %d", len(positional))
		}
		d, ok := AsDecimal(positional[0])
		if !ok {
			return nil, fmt.Errorf("CURRENCY: argument is not numeric")
		}

		code, _ := stringArg(named, "currencyCode")
		if code == "" {
			return nil, fmt.Errorf("CURRENCY: currencyCode is required")
		}
		display, _ := boolArg(named, "displaySymbol")

		formatted, err := oracle.FormatCurrency(loc, d, locale.CurrencyOptions{Code: code, DisplaySymbol: display})
		if err != nil {
			return nil, err
		}
		return FluentNumber{Value: d, Formatted: formatted, Precision: 2}, nil
	}
}

func datetimeBuiltin(oracle locale.Oracle) Callable {
	return func(positional []Value, named map[string]Value, loc string) (Value, error) {
		if len(positional) < 1 {
			return nil, fmt.Errorf("DATETIME: expected 1 positional argument, got %d", len(positional))
		}
		dt, ok := positional[0].(DateTimeValue)
		if !ok {
			return nil, fmt.Errorf("DATETIME: argument is not a date/time value")
		}

		opts := locale.DateOptions{}
		if p, ok := stringArg(named, "pattern"); ok {
			opts.Pattern = p
		}
		if s, ok := stringArg(named, "dateStyle"); ok {
			opts.Style = dateStyleFromString(s)
		}

		formatted, err := oracle.FormatDate(loc, dt.T, opts)
		if err != nil {
			return nil, err
		}
		return StringValue(formatted), nil
	}
}

func dateStyleFromString(s string) locale.DateStyle {
	switch s {
	case "medium":
		return locale.DateStyleMedium
	case "long":
		return locale.DateStyleLong
	case "full":
		return locale.DateStyleFull
	default:
		return locale.DateStyleShort
	}
}

func intArg(named map[string]Value, key string) (int, bool) {
	v, ok := named[key]
	if !ok {
		return 0, false
	}
	d, ok := AsDecimal(v)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

func boolArg(named map[string]Value, key string) (bool, bool) {
	v, ok := named[key]
	if !ok {
		return false, false
	}
	b, ok := v.(BoolValue)
	if !ok {
		return false, false
	}
	return bool(b), true
}

func stringArg(named map[string]Value, key string) (string, bool) {
	v, ok := named[key]
	if !ok {
		return "", false
	}
	s, ok := v.(StringValue)
	if !ok {
		return "", false
	}
	return string(s), true
}
