package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getsubst/subst/pkg/server"
)

var (
	servePort        int
	serveGlobalsFile string
	serveGlobals     []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the substitution REST API",
	Long: `Serve starts the REST API: POST /render performs substitution, the
/vars endpoints manage the server's global variable store, GET /health
reports status. The store starts from the globals file and --global
assignments and lives for the lifetime of the process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		globals, err := buildGlobals(serveGlobalsFile, serveGlobals)
		if err != nil {
			return err
		}

		log := cliLogger()
		api := server.New(servePort,
			server.WithLogger(log),
			server.WithVars(globals),
			server.WithVersion(Version),
		)
		if err := api.Start(); err != nil {
			return err
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		log.Info("shutting down")
		return api.Stop()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 4680, "Port to listen on")
	serveCmd.Flags().StringVar(&serveGlobalsFile, "globals", "", "Globals file (YAML or JSON) seeding the variable store")
	serveCmd.Flags().StringArrayVar(&serveGlobals, "global", nil, "Global variable assignment key=value (repeatable)")
	rootCmd.AddCommand(serveCmd)
}
