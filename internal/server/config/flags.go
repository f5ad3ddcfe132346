package config

import (
	"flag"
	"os"
	"time"

	"github.com/rentacat/rentacat/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session cookie HMAC secret key
//	-l int      session lifetime, minutes
//	-t int      CSRF token validity, minutes
//	-r int      login attempts allowed per window
//	-w int      login rate-limit window, seconds
//	-i string   upload directory for profile images
//	-3          enable S3 image storage
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-l", "-t", "-r", "-w", "-i", "-3", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionLifetime := fs.Int("l", int(config.SessionLifetime.Minutes()), "session lifetime (in minutes)")
	csrfTokenTTL := fs.Int("t", int(config.CSRFTokenTTL.Minutes()), "csrf token validity (in minutes)")
	fs.IntVar(&config.LoginRateLimit, "r", config.LoginRateLimit, "login attempts allowed per window")
	loginRateWindow := fs.Int("w", int(config.LoginRateWindow.Seconds()), "login rate limit window (in seconds)")

	fs.StringVar(&config.UploadDir, "i", config.UploadDir, "profile image upload directory")

	fs.BoolVar(&config.S3Enabled, "3", config.S3Enabled, "store profile images in S3")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionLifetime = time.Duration(*sessionLifetime) * time.Minute
	config.CSRFTokenTTL = time.Duration(*csrfTokenTTL) * time.Minute
	config.LoginRateWindow = time.Duration(*loginRateWindow) * time.Second
}
