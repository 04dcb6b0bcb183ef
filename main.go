package main

import (
	"fmt"

	"github.com/featurekit/featurekit/cmd"

	"github.com/spf13/viper"
)

func configureViper() {
	// read config file, if one exists
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath("/etc/featurekit/")
	viper.AddConfigPath("$HOME/.config/featurekit")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}
}

func main() {
	configureViper()
	cmd.Execute()
}
