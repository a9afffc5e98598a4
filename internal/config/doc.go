// Package config provides the configuration of the irasutoya crawler.
// It defines the request settings, crawl options and output preferences,
// and loads the optional YAML configuration file.
package config
