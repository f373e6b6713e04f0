// Copyright 2021-2022, OVM Labs, Inc.
// For license information, see https://github.com/ovmlabs/rollup-core/blob/master/LICENSE

package genericconf

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

type ConfConfig struct {
	Dump      bool   `koanf:"dump"`
	EnvPrefix string `koanf:"env-prefix"`
	File      string `koanf:"file"`
	String    string `koanf:"string"`
}

var ConfConfigDefault = ConfConfig{
	Dump:      false,
	EnvPrefix: "",
	File:      "",
	String:    "",
}

func ConfConfigAddOptions(prefix string, f *flag.FlagSet) {
	f.Bool(prefix+".dump", ConfConfigDefault.Dump, "print out currently active configuration file")
	f.String(prefix+".env-prefix", ConfConfigDefault.EnvPrefix, "environment variables with given prefix will be loaded as configuration values")
	f.String(prefix+".file", ConfConfigDefault.File, "name of configuration file")
	f.String(prefix+".string", ConfConfigDefault.String, "configuration as JSON string")
}

// BeginCommonParse parses args and merges configuration sources: config
// file, then JSON string, then environment, with explicitly set flags
// winning over everything and flag defaults filling the gaps.
func BeginCommonParse(f *flag.FlagSet, args []string) (*koanf.Koanf, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	k := koanf.New(".")

	if path, _ := f.GetString("conf.file"); path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, errors.Wrap(err, "error loading config file")
		}
	}
	if jsonString, _ := f.GetString("conf.string"); jsonString != "" {
		if err := k.Load(rawbytes.Provider([]byte(jsonString)), json.Parser()); err != nil {
			return nil, errors.Wrap(err, "error loading config string")
		}
	}
	if envPrefix, _ := f.GetString("conf.env-prefix"); envPrefix != "" {
		if err := k.Load(env.Provider(envPrefix+"_", ".", func(s string) string {
			// FOO_BAR__BAZ_QUX -> bar.baz-qux
			key := strings.ToLower(strings.TrimPrefix(s, envPrefix+"_"))
			key = strings.ReplaceAll(key, "__", ".")
			return strings.ReplaceAll(key, "_", "-")
		}), nil); err != nil {
			return nil, errors.Wrap(err, "error loading environment")
		}
	}
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return nil, errors.Wrap(err, "error loading flags")
	}
	return k, nil
}

func EndCommonParse(k *koanf.Koanf, config interface{}) error {
	decoderConfig := koanf.UnmarshalConf{Tag: "koanf"}
	if err := k.UnmarshalWithConf("", config, decoderConfig); err != nil {
		return errors.Wrap(err, "error unmarshalling config")
	}
	return nil
}

// DumpConfig renders the active configuration as JSON after blanking out
// the given keys (secrets stay out of logs).
func DumpConfig(k *koanf.Koanf, blankKeys map[string]interface{}) (string, error) {
	if err := k.Load(confmap.Provider(blankKeys, "."), nil); err != nil {
		return "", errors.Wrap(err, "error removing keys before dump")
	}
	rendered, err := k.Marshal(json.Parser())
	if err != nil {
		return "", errors.Wrap(err, "unable to marshal config to JSON")
	}
	return string(rendered), nil
}
