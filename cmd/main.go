package main

import (
	"os"

	"github.com/spf13/cobra"

	"emg-logger/utils"
)

var RootCmd = &cobra.Command{
	Use:           utils.AppName,
	Short:         "record armband EMG and IMU streams to CSV",
	Long:          "record armband EMG and IMU streams to per-stream CSV files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func RecordCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration file path")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
	cmd.Flags().String("driver", utils.DriverSimulated, "device driver: simulated or serial")
	cmd.Flags().StringP("port", "p", "", "serial port of the armband bridge")
	cmd.Flags().StringP("out", "o", ".", "directory the session files are written to")
	cmd.Flags().Bool("fused", false, "also write allData snapshots")
}

var RecordCmd = &cobra.Command{
	Use: "record",
	SuggestFor: []string{
		"rec", "run",
	},
	Short: "record connects to the armband and logs every stream.",
	Long: `record connects to the armband and logs every stream until interrupted.
The configuration is read in the following order:
1. path specified in --config flag
2. path defined in the EMGLOGGER_CONFIG environment variable
3. default location $HOME/.config/emg-logger/config.yaml, /etc/emg-logger/config.yaml, current directory
The parameters in the configuration file are overwritten by, in order:
1. command line arguments
2. EMGLOGGER_* environment variables
Each connect starts a new session: emg-<ts>.csv, gyro-<ts>.csv, accelerometer-<ts>.csv,
orientation-<ts>.csv and orientationEuler-<ts>.csv.
`,
	Example: `  emg-logger record
  emg-logger record --driver serial --port /dev/ttyACM0 --out ./data`,
	RunE: runRecord,
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", utils.DefaultConfigPath, "specify output path")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init create a configuration template",
	Long: `init create a configuration template.
If --print flag is present, the configuration will be printed to stdout.
If --output / -o flag is present, the configuration will be saved to the path specified.
Otherwise init will output configuration file to $HOME/.config/emg-logger/config.yaml
If --yes / -y flag is present, an existing configuration will be overwritten.
`,
	Example: `  emg-logger init --print
  emg-logger init -o /path/to/config.yaml -y`,
	RunE: runInit,
}

func getRootCmd() *cobra.Command {
	RecordCmdFlags(RecordCmd)
	RootCmd.AddCommand(RecordCmd)

	InitCmdFlags(InitCmd)
	RootCmd.AddCommand(InitCmd)

	return RootCmd
}

func main() {
	if err := getRootCmd().Execute(); err != nil {
		utils.L().Error("%v", err)
		os.Exit(1)
	}
}
