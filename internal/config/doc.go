// Package config provides configuration parsing for vdiff.
//
// The configuration is stored in vdiff.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "maxMessageBytes": 1048576
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vdiff"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "vdiff"
//	  },
//	  "render": {
//	    "pretty": true,
//	    "indent": "  "
//	  },
//	  "store": {
//	    "kind": "s3",
//	    "bucket": "frames",
//	    "prefix": "sessions/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
