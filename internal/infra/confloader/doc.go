// Package confloader loads configuration with koanf.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Defaults already present in the target struct
//  2. A YAML file
//  3. Environment variables (TSMAP_ prefix)
//  4. Explicit overrides, typically from command-line flags
//
// Environment names use a double underscore between nesting levels so
// that single underscores can stay inside key names:
//
//	TSMAP_STRESS__OPS_PER_WORKER=5000  ->  stress.ops_per_worker
package confloader
