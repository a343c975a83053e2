package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/server"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/utils"
)

const logFlushFreqFlagName = "log-flush-frequency"

var logFlushFreq = pflag.Duration(logFlushFreqFlagName, 5*time.Second, "Maximum number of seconds between log flushes")

// KlogWriter serves as a bridge between the standard log package and the glog package.
type KlogWriter struct{}

// Write implements the io.Writer interface.
func (writer KlogWriter) Write(data []byte) (n int, err error) {
	klog.InfoDepth(1, string(data))
	return len(data), nil
}

func initLogs(ctx context.Context) {
	log.SetOutput(KlogWriter{})
	log.SetFlags(0)
	go wait.Until(klog.Flush, *logFlushFreq, ctx.Done())
}

func main() {
	ctx := utils.SetupSignalHandler()
	opts := server.NewOptions()

	cmd := &cobra.Command{
		Use:   "altqctl",
		Short: "Load ALTQ queue, filter and NAT configuration",
		Long: `altqctl loads a declarative configuration of ALTQ queues together with filter, nat,
binat and rdr rules as a single transaction. Queues are validated, their CBQ scheduler parameters
are computed and, once every resource class is staged, the classes are committed in order.
Committed queues are realized on Linux hosts as an HTB hierarchy.`,
		Run: func(cmd *cobra.Command, args []string) {
			initLogs(ctx)
			srv, err := server.NewServer(opts)
			if err != nil {
				klog.Exit(err)
			}

			if err := srv.Run(ctx); err != nil {
				klog.Exit(err)
			}
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().AddFlag(pflag.Lookup(logFlushFreqFlagName))

	if err := cmd.Execute(); err != nil {
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
