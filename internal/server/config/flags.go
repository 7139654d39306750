package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/userdir/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-r string   storage driver: memory | dynamo | postgres
//	-d string   PostgreSQL DSN
//	-t string   DynamoDB table name
//	-i string   Cognito user pool id
//	-b string   upload bucket name
//	-g string   AWS region
//	-e string   AWS base endpoint override (e.g., "http://127.0.0.1:4566")
//	-u string   AWS access key
//	-p string   AWS secret key
//
// os.Args is filtered down to the flags handled here first, so other layers
// can define their own flags without collisions.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-d", "-t", "-i", "-b", "-g", "-e", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "r", config.StorageDriver, "storage driver (memory|dynamo|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TableName, "t", config.TableName, "DynamoDB table name")
	fs.StringVar(&config.UserPoolID, "i", config.UserPoolID, "Cognito user pool id")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "upload bucket")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "AWS region")
	fs.StringVar(&config.AWSBaseEndpoint, "e", config.AWSBaseEndpoint, "AWS base endpoint")
	fs.StringVar(&config.AWSAccessKey, "u", config.AWSAccessKey, "AWS access key")
	fs.StringVar(&config.AWSSecretKey, "p", config.AWSSecretKey, "AWS secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
