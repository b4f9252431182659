// Package config loads dice-reader settings from TOML.
//
// Every threshold the pipeline uses has a default; a config file only needs
// the values it changes. Load looks for an explicit path first, then
// ./dice-reader.toml, then ~/.config/dice-reader/config.toml. A missing
// file is not an error. ToPipeline converts the result into the pipeline's
// own parameter structs.
package config
