package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// invalidBooleanFlagFormat reports an unrecognized optional-boolean literal.
const invalidBooleanFlagFormat = "invalid value '%s' for --%s"

// booleanFlagLiterals maps the liberal spellings accepted by optional-boolean
// flags to their values. The empty string covers bare flag usage.
var booleanFlagLiterals = map[string]bool{
	"":      true,
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
}

// parseBooleanFlagLiteral normalizes and looks up an optional-boolean
// literal, reporting whether the spelling is recognized at all.
func parseBooleanFlagLiteral(input string) (bool, bool) {
	parsedValue, recognized := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	return parsedValue, recognized
}

// optionalBoolValue is a pflag.Value that lets a boolean flag be given bare,
// as --flag=true, or with any literal parseBooleanFlagLiteral accepts.
type optionalBoolValue struct {
	flagName string
	target   *bool
}

func (value *optionalBoolValue) Set(input string) error {
	parsedValue, recognized := parseBooleanFlagLiteral(input)
	if !recognized {
		return fmt.Errorf(invalidBooleanFlagFormat, input, value.flagName)
	}
	*value.target = parsedValue
	return nil
}

func (value *optionalBoolValue) String() string {
	return strconv.FormatBool(*value.target)
}

func (value *optionalBoolValue) Type() string {
	return "bool"
}

// registerOptionalBoolFlag registers a boolean flag that defaults to false
// and evaluates to true when given without a value.
func registerOptionalBoolFlag(flagSet *pflag.FlagSet, target *bool, flagName, description string) {
	*target = false
	flagSet.Var(&optionalBoolValue{flagName: flagName, target: target}, flagName, description)
	flagSet.Lookup(flagName).NoOptDefVal = "true"
}
