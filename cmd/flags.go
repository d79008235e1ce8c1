// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const trueStr = "true"

// flagValue returns the string value of the flag, or an empty string when the
// flag set doesn't define it.
func flagValue(flags *pflag.FlagSet, name string) string {
	flag := flags.Lookup(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

func flagEnabled(flags *pflag.FlagSet, name string) bool {
	return flagValue(flags, name) == trueStr
}

// bindFlags binds each flag to both its yaml configuration key and its
// environment variable, so that flags overwrite the configuration whatever
// its format.
func bindFlags(flags *pflag.FlagSet, bindings []flagBinding) {
	for _, b := range bindings {
		flag := flags.Lookup(b.flag)
		if flag == nil {
			continue
		}
		viper.BindPFlag(b.yamlKey, flag)
		viper.BindPFlag(b.envKey, flag)
	}
}

type flagBinding struct {
	flag    string
	yamlKey string
	envKey  string
}
