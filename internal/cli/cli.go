// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/msinz/muse/internal/config"
	"github.com/msinz/muse/internal/library"
	"github.com/msinz/muse/internal/output"
	"github.com/msinz/muse/internal/tags"
	"github.com/msinz/muse/internal/types"
	"github.com/msinz/muse/internal/utils"
	"github.com/msinz/muse/internal/waveform"
)

const (
	versionFlagName    = "version"
	configFlagName     = "config"
	outputFlagName     = "output"
	skipErrorsFlagName = "skip-errors"
	copyFlagName       = "copy"
	formatFlagName     = "format"

	widthFlagName           = "width"
	heightFlagName          = "height"
	leftColorFlagName       = "left-color"
	rightColorFlagName      = "right-color"
	backgroundColorFlagName = "background-color"
	fileExtensionsFlagName  = "file-extensions"
	outputFilenameFlagName  = "output-filename"
	overwriteFlagName       = "overwrite"
	dryRunFlagName          = "dry-run"
	quietFlagName           = "quiet"
	verboseFlagName         = "verbose"
	jobsFlagName            = "jobs"

	globalInitFlagName = "global"
	forceInitFlagName  = "force"

	versionTemplate      = "muse version: %s\n"
	defaultPath          = "."
	rootUse              = "muse"
	rootShortDescription = "muse command line interface"
	rootLongDescription  = `muse maintains a browser-playable music library.
It indexes a directory tree of MP3 files and cover art into the JavaScript
data file the web player loads, renders PNG waveform strips for tracks, and
inspects audio metadata.`

	indexUse              = types.CommandIndex + " [path]"
	waveformUse           = types.CommandWaveform + " [paths...]"
	tagsUse               = types.CommandTags + " [paths...]"
	indexAlias            = "i"
	waveformAlias         = "wave"
	tagsAlias             = "t"
	indexShortDescription = "generate the library index script (" + indexAlias + ")"
	waveShortDescription  = "render waveform images (" + waveformAlias + ")"
	tagsShortDescription  = "show audio metadata (" + tagsAlias + ")"

	// indexLongDescription provides detailed help for the index command.
	indexLongDescription = `Scan a music directory tree and emit the library index script.
The scan classifies Cover.jpg, Back.jpg, and *.mp3 files, prunes folders
without playable content, and prints a deterministic "const mp3 = ...;"
assignment. Hidden entries are excluded everywhere.`
	// indexUsageExample demonstrates index command usage.
	indexUsageExample = `  # Index the current directory to stdout
  muse index > Music.js

  # Index a library into a file, tolerating unreadable folders
  muse index --skip-errors --output Music.js /srv/music`

	// waveformLongDescription provides detailed help for the waveform command.
	waveformLongDescription = `Render compact indexed-PNG waveform strips for MP3 files.
Directory arguments are searched recursively for matching extensions;
file arguments are used as given. Output defaults to "<input>.png".`
	// waveformUsageExample demonstrates waveform command usage.
	waveformUsageExample = `  # Render waveforms for a whole library, eight at a time
  muse waveform --jobs 8 /srv/music

  # Render one file with custom colors
  muse waveform --left-color 0f0 --right-color 090 song.mp3`

	// tagsLongDescription provides detailed help for the tags command.
	tagsLongDescription = `Print title, artist, album, and track number for audio files.
Use --format to select raw or json output.`
	// tagsUsageExample demonstrates tags command usage.
	tagsUsageExample = `  # Inspect one file
  muse tags "01 Song.mp3"

  # Inspect a folder as JSON
  muse tags --format json ./Albums`

	configUse              = "config"
	configShortDescription = "manage muse configuration"
	configInitUse          = "init"
	configInitShort        = "write a default configuration file"

	versionFlagDescription         = "display application version"
	configFlagDescription          = "path to the configuration file"
	outputFlagDescription          = "write the artifact to a file instead of stdout"
	skipErrorsFlagDescription      = "skip unreadable subdirectories instead of aborting"
	copyFlagDescription            = "copy the artifact to the system clipboard"
	formatFlagDescription          = "output format (raw or json)"
	widthFlagDescription           = "waveform image width in pixels"
	heightFlagDescription          = "waveform image height in pixels (even)"
	leftColorFlagDescription       = "left channel color (RGB, RRGGBB, or RRGGBBAA)"
	rightColorFlagDescription      = "right channel color (RGB, RRGGBB, or RRGGBBAA)"
	backgroundColorFlagDescription = "background color (RGB, RRGGBB, or RRGGBBAA)"
	fileExtensionsFlagDescription  = "comma-separated audio file extensions"
	outputFilenameFlagDescription  = "output file name (single input file only)"
	overwriteFlagDescription       = "overwrite existing output files"
	dryRunFlagDescription          = "render without writing files"
	quietFlagDescription           = "suppress per-file messages"
	verboseFlagDescription         = "print additional information"
	jobsFlagDescription            = "number of files rendered concurrently (0 = all CPUs)"
	globalInitFlagDescription      = "write the configuration into the home directory"
	forceInitFlagDescription       = "overwrite an existing configuration file"

	defaultImageWidth       = 2048
	defaultImageHeight      = 128
	defaultLeftColor        = "00ff99"
	defaultRightColor       = "99ff00"
	defaultBackgroundColor  = "ffffff00"
	defaultFileExtensions   = "mp3"
	createdMessageFormat    = "Created %s\n"
	dryRunMessageFormat     = "DryRun %s\n"
	skipExistingFormat      = "Skipping %s: output exists (use --overwrite)\n"
	writtenConfigFormat     = "Wrote configuration to %s\n"
	invalidFormatMessage    = "invalid format value '%s'"
	warningMetadataFormat   = "Warning: skipping %s: %v\n"
	waveformFailureFormat   = "%s: %v\n"
	waveformErrorTally      = "%d errors occurred while processing files"
	noAudioFilesMessage     = "no matching audio files found"
	outputFilenameConflict  = "cannot use --output-filename with multiple audio files"
	outputFilenameDirectory = "cannot use --output-filename with a directory"
	waveformOutputSuffix    = ".png"

	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports an index path that is not a directory.
	errorNotDirectoryFormat = "path '%s' is not a directory"
	// errorWriteArtifactFormat reports a failure to write the index artifact.
	errorWriteArtifactFormat = "writing artifact to %s: %w"
	// errorClipboardFormat reports a failure to copy the artifact.
	errorClipboardFormat = "copying artifact to clipboard: %w"
	// workingDirectoryErrorFormat reports failure to determine the working directory.
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON:
		return true
	default:
		return false
	}
}

// Execute runs the muse application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var configFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createIndexCommand(&configFilePath),
		createWaveformCommand(&configFilePath),
		createTagsCommand(&configFilePath),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// loadConfiguration resolves the application configuration for a command run.
func loadConfiguration(configFilePath string) (config.ApplicationConfiguration, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: configFilePath,
	})
}

// createIndexCommand returns the index subcommand.
func createIndexCommand(configFilePath *string) *cobra.Command {
	var outputPath string
	var skipErrors bool
	var copyToClipboard bool

	indexCommand := &cobra.Command{
		Use:     indexUse,
		Aliases: []string{indexAlias},
		Short:   indexShortDescription,
		Long:    indexLongDescription,
		Example: indexUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfiguration(*configFilePath)
			if configurationError != nil {
				return configurationError
			}
			indexConfiguration := applicationConfiguration.Index
			if !command.Flags().Changed(outputFlagName) && indexConfiguration.Output != "" {
				outputPath = indexConfiguration.Output
			}
			if !command.Flags().Changed(skipErrorsFlagName) && indexConfiguration.SkipErrors != nil {
				skipErrors = *indexConfiguration.SkipErrors
			}
			if !command.Flags().Changed(copyFlagName) && indexConfiguration.Clipboard != nil {
				copyToClipboard = *indexConfiguration.Clipboard
			}

			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			return runIndex(rootPath, outputPath, skipErrors, copyToClipboard)
		},
	}

	indexCommand.Flags().StringVar(&outputPath, outputFlagName, "", outputFlagDescription)
	indexCommand.Flags().BoolVar(&skipErrors, skipErrorsFlagName, false, skipErrorsFlagDescription)
	registerOptionalBoolFlag(indexCommand.Flags(), &copyToClipboard, copyFlagName, copyFlagDescription)
	return indexCommand
}

// runIndex executes the scan/prune/serialize pipeline and emits the artifact.
func runIndex(rootPath, outputPath string, skipErrors, copyToClipboard bool) error {
	validatedRoot, validationError := resolveAndValidateDirectory(rootPath)
	if validationError != nil {
		return validationError
	}

	scanner := library.Scanner{SkipUnreadable: skipErrors}
	rootNode, scanError := scanner.Scan(validatedRoot.AbsolutePath)
	if scanError != nil {
		return scanError
	}
	rootNode.Prune()

	artifact, renderError := output.RenderLibraryScript(rootNode)
	if renderError != nil {
		return renderError
	}

	if copyToClipboard {
		if clipboardError := clipboard.WriteAll(artifact); clipboardError != nil {
			return fmt.Errorf(errorClipboardFormat, clipboardError)
		}
	}

	if outputPath != "" {
		if writeError := os.WriteFile(outputPath, []byte(artifact), 0o644); writeError != nil {
			return fmt.Errorf(errorWriteArtifactFormat, outputPath, writeError)
		}
		return nil
	}
	fmt.Fprint(os.Stdout, artifact)
	return nil
}

// waveformOptions stores the waveform command's flag values.
type waveformOptions struct {
	width           int
	height          int
	leftColor       string
	rightColor      string
	backgroundColor string
	fileExtensions  string
	outputFilename  string
	overwrite       bool
	dryRun          bool
	quiet           bool
	verbose         bool
	jobs            int
}

// createWaveformCommand returns the waveform subcommand.
func createWaveformCommand(configFilePath *string) *cobra.Command {
	var options waveformOptions

	waveformCommand := &cobra.Command{
		Use:     waveformUse,
		Aliases: []string{waveformAlias},
		Short:   waveShortDescription,
		Long:    waveformLongDescription,
		Example: waveformUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfiguration(*configFilePath)
			if configurationError != nil {
				return configurationError
			}
			waveformConfiguration := applicationConfiguration.Waveform
			if !command.Flags().Changed(widthFlagName) && waveformConfiguration.Width != nil {
				options.width = *waveformConfiguration.Width
			}
			if !command.Flags().Changed(heightFlagName) && waveformConfiguration.Height != nil {
				options.height = *waveformConfiguration.Height
			}
			if !command.Flags().Changed(jobsFlagName) && waveformConfiguration.Jobs != nil {
				options.jobs = *waveformConfiguration.Jobs
			}
			if !command.Flags().Changed(leftColorFlagName) && waveformConfiguration.LeftColor != "" {
				options.leftColor = waveformConfiguration.LeftColor
			}
			if !command.Flags().Changed(rightColorFlagName) && waveformConfiguration.RightColor != "" {
				options.rightColor = waveformConfiguration.RightColor
			}
			if !command.Flags().Changed(backgroundColorFlagName) && waveformConfiguration.BackgroundColor != "" {
				options.backgroundColor = waveformConfiguration.BackgroundColor
			}
			return runWaveform(arguments, options)
		},
	}

	waveformCommand.Flags().IntVar(&options.width, widthFlagName, defaultImageWidth, widthFlagDescription)
	waveformCommand.Flags().IntVar(&options.height, heightFlagName, defaultImageHeight, heightFlagDescription)
	waveformCommand.Flags().StringVar(&options.leftColor, leftColorFlagName, defaultLeftColor, leftColorFlagDescription)
	waveformCommand.Flags().StringVar(&options.rightColor, rightColorFlagName, defaultRightColor, rightColorFlagDescription)
	waveformCommand.Flags().StringVar(&options.backgroundColor, backgroundColorFlagName, defaultBackgroundColor, backgroundColorFlagDescription)
	waveformCommand.Flags().StringVar(&options.fileExtensions, fileExtensionsFlagName, defaultFileExtensions, fileExtensionsFlagDescription)
	waveformCommand.Flags().StringVarP(&options.outputFilename, outputFilenameFlagName, "o", "", outputFilenameFlagDescription)
	waveformCommand.Flags().BoolVar(&options.overwrite, overwriteFlagName, false, overwriteFlagDescription)
	waveformCommand.Flags().BoolVar(&options.dryRun, dryRunFlagName, false, dryRunFlagDescription)
	waveformCommand.Flags().BoolVar(&options.quiet, quietFlagName, false, quietFlagDescription)
	waveformCommand.Flags().BoolVar(&options.verbose, verboseFlagName, false, verboseFlagDescription)
	waveformCommand.Flags().IntVar(&options.jobs, jobsFlagName, 0, jobsFlagDescription)
	return waveformCommand
}

// runWaveform collects the audio files and renders them concurrently.
func runWaveform(inputPaths []string, options waveformOptions) error {
	backgroundColor, backgroundError := waveform.ParseColor(options.backgroundColor)
	if backgroundError != nil {
		return backgroundError
	}
	leftColor, leftError := waveform.ParseColor(options.leftColor)
	if leftError != nil {
		return leftError
	}
	rightColor, rightError := waveform.ParseColor(options.rightColor)
	if rightError != nil {
		return rightError
	}
	if dimensionError := waveform.ValidateDimensions(options.width, options.height); dimensionError != nil {
		return dimensionError
	}

	if options.outputFilename != "" {
		if len(inputPaths) > 1 {
			return errors.New(outputFilenameConflict)
		}
		if utils.IsDirectory(inputPaths[0]) {
			return errors.New(outputFilenameDirectory)
		}
	}

	audioFiles, collectError := waveform.CollectAudioFiles(inputPaths, strings.Split(options.fileExtensions, ","))
	if collectError != nil {
		return collectError
	}
	if len(audioFiles) == 0 {
		return errors.New(noAudioFilesMessage)
	}

	generationOptions := waveform.Options{
		Width:           options.width,
		Height:          options.height,
		BackgroundColor: backgroundColor,
		LeftColor:       leftColor,
		RightColor:      rightColor,
		Overwrite:       options.overwrite,
		DryRun:          options.dryRun,
	}

	concurrencyLimit := options.jobs
	if concurrencyLimit <= 0 {
		concurrencyLimit = runtime.NumCPU()
	}

	var failureMutex sync.Mutex
	var failureCount int
	var workGroup errgroup.Group
	workGroup.SetLimit(concurrencyLimit)

	for _, audioFile := range audioFiles {
		audioFile := audioFile
		workGroup.Go(func() error {
			outputPath := options.outputFilename
			if outputPath == "" {
				outputPath = audioFile + waveformOutputSuffix
			}

			generationError := waveform.Generate(audioFile, outputPath, generationOptions)
			switch {
			case errors.Is(generationError, waveform.ErrOutputExists):
				if options.verbose {
					fmt.Fprintf(os.Stderr, skipExistingFormat, outputPath)
				}
			case generationError != nil:
				fmt.Fprintf(os.Stderr, waveformFailureFormat, audioFile, generationError)
				failureMutex.Lock()
				failureCount++
				failureMutex.Unlock()
			case options.dryRun:
				if options.verbose {
					fmt.Printf(dryRunMessageFormat, outputPath)
				}
			default:
				if !options.quiet {
					fmt.Printf(createdMessageFormat, outputPath)
				}
			}
			return nil
		})
	}
	// Workers report failures individually and never return errors.
	_ = workGroup.Wait()

	if failureCount > 0 {
		return fmt.Errorf(waveformErrorTally, failureCount)
	}
	return nil
}

// createTagsCommand returns the tags subcommand.
func createTagsCommand(configFilePath *string) *cobra.Command {
	var outputFormat string

	tagsCommand := &cobra.Command{
		Use:     tagsUse,
		Aliases: []string{tagsAlias},
		Short:   tagsShortDescription,
		Long:    tagsLongDescription,
		Example: tagsUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfiguration(*configFilePath)
			if configurationError != nil {
				return configurationError
			}
			if !command.Flags().Changed(formatFlagName) && applicationConfiguration.Tags.Format != "" {
				outputFormat = applicationConfiguration.Tags.Format
			}
			outputFormatLower := strings.ToLower(outputFormat)
			if !isSupportedFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormatLower)
			}
			return runTags(arguments, outputFormatLower)
		},
	}

	tagsCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	return tagsCommand
}

// runTags reads metadata for the given paths and prints it in the requested format.
func runTags(inputPaths []string, outputFormat string) error {
	audioFiles, collectError := waveform.CollectAudioFiles(inputPaths, strings.Split(defaultFileExtensions, ","))
	if collectError != nil {
		return collectError
	}

	var trackList []types.TrackMetadata
	for _, audioFile := range audioFiles {
		trackMetadata, metadataError := tags.ReadTrackMetadata(audioFile)
		if metadataError != nil {
			fmt.Fprintf(os.Stderr, warningMetadataFormat, audioFile, metadataError)
			continue
		}
		trackList = append(trackList, trackMetadata)
	}

	if outputFormat == types.FormatJSON {
		renderedJSON, renderError := output.RenderTrackMetadataJSON(trackList)
		if renderError != nil {
			return renderError
		}
		fmt.Println(renderedJSON)
		return nil
	}
	fmt.Print(output.RenderTrackMetadataRaw(trackList))
	return nil
}

// createConfigCommand returns the config subcommand.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var writeGlobal bool
	var forceOverwrite bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShort,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf(writtenConfigFormat, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalInitFlagName, false, globalInitFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceInitFlagName, false, forceInitFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}

// resolveAndValidateDirectory converts an input path to absolute form and
// verifies it names an existing directory.
func resolveAndValidateDirectory(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	pathInfo, statError := os.Stat(cleanPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, statError)
	}
	if !pathInfo.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true}, nil
}
