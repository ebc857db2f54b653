// Package core holds configuration and logging shared by every part of the
// server.
package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the server.
type Config struct {
	// Hostname or IP address on which the server will listen for connections.
	Hostname string `mapstructure:"hostname"`
	// TCP port on which the server will listen.
	Port int `mapstructure:"port"`
	// Maximum number of concurrent connections the server will allow.
	MaxConnections int `mapstructure:"max_connections"`
	// Full path to file to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	Status struct {
		// Description shown in the client's server list.
		MOTD string `mapstructure:"motd"`
		// Player capacity advertised in the server list.
		MaxPlayers int `mapstructure:"max_players"`
		// Full (or relative to the config directory) path to a PNG favicon.
		// Blank omits the favicon from the status payload.
		FaviconPath string `mapstructure:"favicon_path"`
	} `mapstructure:"status"`

	Game struct {
		// Gamemode assigned to joining players (0 survival, 1 creative).
		Gamemode int `mapstructure:"gamemode"`
		// Dimension players join into (-1 nether, 0 overworld, 1 end).
		Dimension int `mapstructure:"dimension"`
		// Level type string sent in the join packet.
		LevelType string `mapstructure:"level_type"`
		// View distance in chunks sent in the join packet.
		ViewDistance int `mapstructure:"view_distance"`
		// Number of ticks between keepalive probes. 0 disables them.
		KeepAliveIntervalTicks int `mapstructure:"keepalive_interval_ticks"`
	} `mapstructure:"game"`

	Network struct {
		// Seconds a connection may sit idle between packets before its read
		// deadline expires. 0 disables the deadline.
		ReadTimeout int `mapstructure:"read_timeout"`
	} `mapstructure:"network"`

	Debugging struct {
		// Log a hex dump of every packet at debug level.
		PacketLoggingEnabled bool `mapstructure:"packet_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "MCRS"

// LoadConfig initializes Viper with the contents of the config file under configPath.
func LoadConfig(configPath string) *Config {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, viper.ConfigFileNotFoundError{}) {
			fmt.Printf("error reading config file: no config file in path %s", configPath)
		} else {
			fmt.Printf("error reading config file: %v", err)
		}
		os.Exit(1)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, status.motd can be set using: <envVarPrefix>_STATUS_MOTD
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			fmt.Printf("error binding %s to %s", k, envVarPrefix+"_"+envVar)
			os.Exit(1)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		fmt.Printf("error unmarshaling config object: %v", err)
		os.Exit(1)
	}
	return config
}

func setDefaults() {
	viper.SetDefault("hostname", "127.0.0.1")
	viper.SetDefault("port", 25565)
	viper.SetDefault("max_connections", 100)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("status.motd", "mcrs server")
	viper.SetDefault("status.max_players", 25)
	viper.SetDefault("game.gamemode", 1)
	viper.SetDefault("game.dimension", 0)
	viper.SetDefault("game.level_type", "default")
	viper.SetDefault("game.view_distance", 8)
	viper.SetDefault("game.keepalive_interval_ticks", 200)
	viper.SetDefault("network.read_timeout", 30)
}

// Address returns the full listen address of the server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Hostname, c.Port)
}
