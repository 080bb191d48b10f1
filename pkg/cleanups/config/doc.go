/*
Package config builds cleanup registries from configuration files.

# Overview

config wraps a map[string]any with typed accessor methods that handle
missing keys and type mismatches gracefully by returning default
values, and translates well-known keys into registry options and
listeners.

# Basic Usage

Load a file and build a registry from it:

	cfg, err := config.FromFile("cleanups.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	rt, err := config.Build(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	defer rt.Close()

	reg := rt.NewRegistry()

# Recognized Keys

	exit_hook: true        # run the registry at process exit
	debug_listener: true   # attach a stderr DebugListener
	history_backend: sqlite   # "memory" or "sqlite"
	history_path: ./cleanups.db

Unknown keys are ignored, so cleanup settings can live inside a larger
application config.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
