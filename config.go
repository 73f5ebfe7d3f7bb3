package satpower

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _satconfig{}
)

// _satconfig is a "hidden" struct, just use `satConfig`
type _satconfig struct {
	outputDir string
}

// satConfig returns the exporter configuration. An unset SATPOWER_CONFIG
// falls back to writing in the working directory; a set one must point at a
// directory holding a conf.toml.
func satConfig() _satconfig {
	if cfgLoaded {
		return config
	}
	confPath := os.Getenv("SATPOWER_CONFIG")
	if confPath == "" {
		config = _satconfig{outputDir: "."}
		cfgLoaded = true
		return config
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}
	outputDir := viper.GetString("general.output_path")
	if outputDir == "" {
		outputDir = "."
	}
	config = _satconfig{outputDir: outputDir}
	cfgLoaded = true
	return config
}
