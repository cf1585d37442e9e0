package main

import (
	"context"
	"os"

	"github.com/kasflow/txbuilder/services/builder"
	"github.com/kasflow/txbuilder/settings"
	"github.com/kasflow/txbuilder/ulogger"
	"github.com/kasflow/txbuilder/util/servicemanager"
	"github.com/ordishs/gocore"
)

const progname = "txbuilder"

// overridden at build time via -ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	gocore.SetInfo(progname, version, commit)
	gocore.Log(progname)

	gocore.AddAppPayloadFn("CONFIG", func() interface{} {
		return gocore.Config().GetAll()
	})

	tSettings := settings.NewSettings()

	logger := ulogger.New(progname)

	if err := tSettings.Validate(); err != nil {
		logger.Errorf("invalid configuration: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s %s (%s) starting on network %s", progname, version, commit, tSettings.Network)

	sm := servicemanager.NewServiceManager(context.Background(), logger)
	sm.AddService("TxBuilder", builder.New(logger.New("txb"), tSettings))

	if err := sm.StartAllAndWait(); err != nil {
		logger.Errorf("service manager exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s shut down cleanly", progname)
}
