// Package config loads the nftjson configuration file.
//
// # Overview
//
// The file is HCL (or its JSON form) and every block is optional:
//
//	schema_version = "1.0"
//
//	nft {
//	  program   = "nft"
//	  args      = []
//	  dir       = ""
//	  namespace = ""   # run nft inside "ip netns exec <namespace>"
//	}
//
//	log {
//	  level = "info"
//	  json  = false
//	}
//
//	decode {
//	  allow_unknown_fields = false
//	}
//
//	metrics {
//	  listen   = ":9642"
//	  interval = "15s"
//	}
//
// [Load] and [LoadFile] fill unset values from [Default]. [Render] and
// [WriteDefault] produce the file above.
package config
