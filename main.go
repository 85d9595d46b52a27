package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ChintuIdrive/cloudwatch-metrics/api"
	"ChintuIdrive/cloudwatch-metrics/batch"
	"ChintuIdrive/cloudwatch-metrics/clients"
	"ChintuIdrive/cloudwatch-metrics/collector"
	"ChintuIdrive/cloudwatch-metrics/conf"
	"ChintuIdrive/cloudwatch-metrics/dto"
	"ChintuIdrive/cloudwatch-metrics/monitor"
	"ChintuIdrive/cloudwatch-metrics/publisher"

	"github.com/klauspost/compress/gzip"
)

// Logs above this size get compressed aside on startup so the file
// doesn't grow without bound across restarts.
const logRotateSize = 10 << 20

func main() {
	configPath := flag.String("config", "", "Path to JSON options file")
	profileFlag := flag.String("profile", "", "AWS profile to use")
	regionFlag := flag.String("region", "", "AWS region to connect")
	intervalFlag := flag.Int("interval", 0, "Sleep for that many minutes between cycles")
	hostGroupFlag := flag.String("host-group", "", "Optional fleet group dimension")
	verboseFlag := flag.Bool("verbose", false, "Be verbose")
	flag.Parse()

	config := conf.GetDefaultConfig()
	if *configPath != "" {
		loaded, err := conf.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		config = loaded
	}

	// Flags override the options file, which overrides the defaults.
	if *profileFlag != "" {
		config.Profile = *profileFlag
	}
	if *regionFlag != "" {
		config.Region = *regionFlag
	}
	if *intervalFlag != 0 {
		config.IntervalMinutes = *intervalFlag
	}
	if *hostGroupFlag != "" {
		config.HostGroup = *hostGroupFlag
	}
	if *verboseFlag {
		config.Verbose = true
	}

	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := setupLogging(config.LogFilePath); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	log.Printf("starting cloudwatch-metrics")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := clients.LoadAWSConfig(ctx, config.Profile, config.Region)
	if err != nil {
		log.Fatalf("No usable AWS credentials: %v", err)
	}

	identity, err := resolveIdentity(ctx, config)
	if err != nil {
		log.Fatalf("Fatal error: not running on an EC2 instance and no node-id configured: %v", err)
	}
	log.Printf("publishing as instance %s (namespace %s)", identity.InstanceID, config.Namespace)

	cloudWatchClient := clients.NewCloudWatchClient(awsCfg, config.Namespace)
	pub := publisher.New(cloudWatchClient, config.MaxPointsPerRequest, config.MaxPublishAttempts, config.Verbose)
	builder := batch.NewBuilder(identity, config.Verbose)

	collectors := []collector.Collector{
		collector.LoadAverage{},
		collector.MemoryUtilization{},
		collector.NewDiskSpaceUtilization(config.GetMountsToMonitor()),
		collector.NetworkConnections{},
		collector.OpenFileDescriptorCount{},
	}

	daemon := monitor.NewMetricsDaemon(config, collectors, builder, pub)

	if config.APIPort != "" {
		api.RegisterHandlers(daemon)
		go func() {
			log.Printf("diagnostic API listening on %s", config.APIPort)
			if err := http.ListenAndServe(config.APIPort, nil); err != nil {
				log.Printf("diagnostic API stopped: %v", err)
			}
		}()
	}

	daemon.Run(ctx)
	log.Printf("exiting on shutdown signal")
}

// resolveIdentity prefers a configured node id so the daemon can run off
// EC2; otherwise the instance metadata service must answer.
func resolveIdentity(ctx context.Context, config *conf.Config) (dto.HostIdentity, error) {
	identity := dto.HostIdentity{
		InstanceID: config.NodeID,
		HostGroup:  config.HostGroup,
	}
	if identity.InstanceID != "" {
		return identity, nil
	}

	instanceID, err := clients.GetInstanceID(ctx)
	if err != nil {
		return dto.HostIdentity{}, err
	}
	identity.InstanceID = instanceID
	return identity, nil
}

func setupLogging(logFilePath string) error {
	if err := rotateLogFile(logFilePath); err != nil {
		log.Printf("could not rotate previous log: %v", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	return nil
}

// rotateLogFile compresses an oversized previous log to <path>.1.gz and
// starts fresh. One generation is enough; the remote side holds the
// real history.
func rotateLogFile(logFilePath string) error {
	info, err := os.Stat(logFilePath)
	if err != nil || info.Size() < logRotateSize {
		return nil
	}

	src, err := os.Open(logFilePath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(fmt.Sprintf("%s.1.gz", logFilePath))
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	return os.Truncate(logFilePath, 0)
}
