// Package config loads the optional application configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/msinz/muse/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Index    IndexConfiguration    `mapstructure:"index"`
	Waveform WaveformConfiguration `mapstructure:"waveform"`
	Tags     TagsConfiguration     `mapstructure:"tags"`
}

// IndexConfiguration defines defaults for the index command.
type IndexConfiguration struct {
	Output     string `mapstructure:"output"`
	SkipErrors *bool  `mapstructure:"skip_errors"`
	Clipboard  *bool  `mapstructure:"clipboard"`
}

// WaveformConfiguration defines defaults for the waveform command.
type WaveformConfiguration struct {
	Width           *int   `mapstructure:"width"`
	Height          *int   `mapstructure:"height"`
	Jobs            *int   `mapstructure:"jobs"`
	LeftColor       string `mapstructure:"left_color"`
	RightColor      string `mapstructure:"right_color"`
	BackgroundColor string `mapstructure:"background_color"`
}

// TagsConfiguration defines defaults for the tags command.
type TagsConfiguration struct {
	Format string `mapstructure:"format"`
}

// LoadApplicationConfiguration loads configuration from the global file in
// the user's home directory and the local file in the working directory,
// with local values overriding global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfiguration, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfiguration)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Index = result.Index.merge(override.Index)
	result.Waveform = result.Waveform.merge(override.Waveform)
	result.Tags = result.Tags.merge(override.Tags)
	return result
}

func (configuration IndexConfiguration) merge(override IndexConfiguration) IndexConfiguration {
	result := configuration
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.SkipErrors != nil {
		result.SkipErrors = cloneBool(override.SkipErrors)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (configuration WaveformConfiguration) merge(override WaveformConfiguration) WaveformConfiguration {
	result := configuration
	if override.Width != nil {
		result.Width = cloneInt(override.Width)
	}
	if override.Height != nil {
		result.Height = cloneInt(override.Height)
	}
	if override.Jobs != nil {
		result.Jobs = cloneInt(override.Jobs)
	}
	if override.LeftColor != "" {
		result.LeftColor = override.LeftColor
	}
	if override.RightColor != "" {
		result.RightColor = override.RightColor
	}
	if override.BackgroundColor != "" {
		result.BackgroundColor = override.BackgroundColor
	}
	return result
}

func (configuration TagsConfiguration) merge(override TagsConfiguration) TagsConfiguration {
	result := configuration
	if override.Format != "" {
		result.Format = override.Format
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
