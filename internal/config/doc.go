// Package config loads cosmos.json, the project configuration of a cosmos
// preview workspace.
//
// # Configuration File Structure
//
//	{
//	  "name": "design-system",
//	  "fixtures": {
//	    "dir": "fixtures",
//	    "watch": true,
//	    "s3": { "bucket": "design-fixtures", "prefix": "cosmos/", "region": "eu-west-1" }
//	  },
//	  "dev": { "host": "localhost", "port": 5000 },
//	  "redux": {
//	    "fixtureKey": "reduxState",
//	    "alwaysCreateStore": false,
//	    "disableLocalState": true
//	  },
//	  "metrics": { "enabled": true, "path": "/metrics" }
//	}
//
// Missing fields take the defaults returned by New. When fixtures.s3.bucket
// is set, fixtures are read from S3 instead of fixtures.dir.
package config
