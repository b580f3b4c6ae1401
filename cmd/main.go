package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"privacyguard/catalog"
	"privacyguard/classify"
	"privacyguard/config"
	"privacyguard/logger"
	"privacyguard/session"
	"privacyguard/stats"
	"privacyguard/sysinstall"
	"privacyguard/webapi"
)

func main() {
	configPath := flag.String("c", "config.yaml", "配置文件路径")
	logLevel := flag.String("log-level", "", "日志级别（覆盖配置文件）")
	service := flag.String("s", "", "服务管理：install | uninstall | status")
	dryRun := flag.Bool("dry-run", false, "服务安装干运行模式")
	help := flag.Bool("h", false, "显示帮助信息")
	flag.Parse()

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *service != "" {
		runServiceCommand(*service, *dryRun)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config %s: %v", *configPath, err)
	}

	if *logLevel != "" {
		cfg.System.LogLevel = *logLevel
	}
	logger.SetLevel(cfg.System.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogMgr, err := catalog.NewManager(&cfg.Catalog)
	if err != nil {
		logger.Fatalf("failed to create catalog manager: %v", err)
	}
	catalogMgr.Start(ctx)

	userLists := catalog.NewUserLists()
	globalStats := stats.NewStats(&cfg.Stats)
	classifier := classify.New(catalogMgr, userLists)
	sessions := session.NewManager(classifier, globalStats)

	apiServer := webapi.NewServer(cfg, sessions, catalogMgr, userLists, globalStats)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Errorf("web API server exited: %v", err)
		}
	}()

	logger.Infof("Privacy Guard started (engine=%s)", cfg.Catalog.Engine)

	// 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infof("received signal %v, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("web API shutdown: %v", err)
	}
	globalStats.Stop()
	cancel()
}

func runServiceCommand(action string, dryRun bool) {
	installer := sysinstall.NewSystemInstaller(sysinstall.InstallerConfig{
		DryRun:  dryRun,
		Verbose: true,
	})

	var err error
	switch action {
	case "install":
		err = installer.Install()
	case "uninstall":
		err = installer.Uninstall()
	case "status":
		err = installer.Status()
	default:
		fmt.Printf("未知的服务命令：%s（支持 install | uninstall | status）\n", action)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("错误：%v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Privacy Guard - tracking detection and privacy scoring engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  privacyguard [-c config.yaml] [-log-level debug|info|warn|error]")
	fmt.Println("  privacyguard -s install|uninstall|status [-dry-run]")
	fmt.Println()
	flag.PrintDefaults()
}
