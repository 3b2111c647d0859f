// Package config loads reconcile.json, the configuration file read by
// vdomctl.
//
// Every field is optional; a missing file yields the defaults.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "reconcile": {
//	    "root": "body",
//	    "devWarnings": false,
//	    "propSync": false,
//	    "textCompare": "live"
//	  },
//	  "watch": {
//	    "debounce": "50ms"
//	  },
//	  "inspector": {
//	    "addr": "localhost:7070"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vdom",
//	    "path": "/metrics"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := reconcile.New(factory, cfg.ReconcileOptions()...)
package config
