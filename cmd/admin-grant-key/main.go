// Package main provides a one-shot utility for admin grant keys.
//
// It emits the keypair and a signed grant used by the admin HTTP
// boundary during local development.
package main

import (
	"flag"
	"os"

	"github.com/classfund/classfund/internal/platform/config"
	"github.com/classfund/classfund/internal/tools/admingrant"
)

func main() {
	opts := admingrant.Options{}
	flag.StringVar(&opts.Issuer, "issuer", "", "Grant issuer (default classfund-local)")
	flag.StringVar(&opts.Audience, "audience", "", "Grant audience (default classfund-admin)")
	flag.StringVar(&opts.Subject, "subject", "", "Grant subject (default admin@localhost)")
	flag.DurationVar(&opts.TTL, "ttl", 0, "Grant lifetime (default 24h)")
	flag.Parse()

	if err := admingrant.Run(os.Stdout, nil, opts); err != nil {
		config.Exitf("generate admin grant key: %v", err)
	}
}
