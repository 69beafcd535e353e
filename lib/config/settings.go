// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/fault"
)

// ClusteredVariable is the Context key of the clustering flag.
const ClusteredVariable = "clustered"

// Settings is the typed view of the variables the image understands.
// Keys are the lower-cased Context names. Optional fields are empty
// when unset; the templates supply their defaults.
type Settings struct {
	InstallDir string `env:"jira_install_dir,required,notEmpty" yaml:"jira_install_dir,omitempty"`
	Home       string `env:"jira_home,required,notEmpty" yaml:"jira_home,omitempty"`
	RunUser    string `env:"run_user,required,notEmpty" yaml:"run_user,omitempty"`
	RunGroup   string `env:"run_group,required,notEmpty" yaml:"run_group,omitempty"`

	// Clustered enables cluster.properties generation only when it is
	// exactly "true".
	Clustered string `env:"clustered" yaml:"clustered,omitempty"`

	Tomcat   TomcatSettings   `envPrefix:"atl_tomcat_" yaml:"tomcat"`
	Proxy    ProxySettings    `envPrefix:"atl_proxy_" yaml:"proxy"`
	Database DatabaseSettings `yaml:"database"`
	Cluster  ClusterSettings  `yaml:"cluster"`
}

// TomcatSettings tunes the server.xml connector and context.
type TomcatSettings struct {
	ManagementPort    string `env:"mgmt_port" yaml:"mgmt_port,omitempty"`
	Port              string `env:"port" yaml:"port,omitempty"`
	MaxThreads        string `env:"maxthreads" yaml:"maxthreads,omitempty"`
	MinSpareThreads   string `env:"minsparethreads" yaml:"minsparethreads,omitempty"`
	ConnectionTimeout string `env:"connectiontimeout" yaml:"connectiontimeout,omitempty"`
	EnableLookups     string `env:"enablelookups" yaml:"enablelookups,omitempty"`
	Protocol          string `env:"protocol" yaml:"protocol,omitempty"`
	AcceptCount       string `env:"acceptcount" yaml:"acceptcount,omitempty"`
	Secure            string `env:"secure" yaml:"secure,omitempty"`
	Scheme            string `env:"scheme" yaml:"scheme,omitempty"`
	ContextPath       string `env:"contextpath" yaml:"contextpath,omitempty"`
}

// ProxySettings names the reverse proxy in front of the connector.
type ProxySettings struct {
	Name string `env:"name" yaml:"name,omitempty"`
	Port string `env:"port" yaml:"port,omitempty"`
}

// DatabaseSettings feeds dbconfig.xml.
type DatabaseSettings struct {
	Type                          string `env:"atl_db_type" yaml:"atl_db_type,omitempty"`
	Driver                        string `env:"atl_db_driver" yaml:"atl_db_driver,omitempty"`
	URL                           string `env:"atl_jdbc_url" yaml:"atl_jdbc_url,omitempty"`
	User                          string `env:"atl_jdbc_user" yaml:"atl_jdbc_user,omitempty"`
	Password                      string `env:"atl_jdbc_password" yaml:"atl_jdbc_password,omitempty"`
	SchemaName                    string `env:"atl_db_schema_name" yaml:"atl_db_schema_name,omitempty"`
	PoolMinSize                   string `env:"atl_db_poolminsize" yaml:"atl_db_poolminsize,omitempty"`
	PoolMaxSize                   string `env:"atl_db_poolmaxsize" yaml:"atl_db_poolmaxsize,omitempty"`
	MinIdle                       string `env:"atl_db_minidle" yaml:"atl_db_minidle,omitempty"`
	MaxIdle                       string `env:"atl_db_maxidle" yaml:"atl_db_maxidle,omitempty"`
	MaxWaitMillis                 string `env:"atl_db_maxwaitmillis" yaml:"atl_db_maxwaitmillis,omitempty"`
	ValidationQuery               string `env:"atl_db_validationquery" yaml:"atl_db_validationquery,omitempty"`
	TimeBetweenEvictionRunsMillis string `env:"atl_db_timebetweenevictionrunsmillis" yaml:"atl_db_timebetweenevictionrunsmillis,omitempty"`
	MinEvictableIdleTimeMillis    string `env:"atl_db_minevictableidletimemillis" yaml:"atl_db_minevictableidletimemillis,omitempty"`
	RemoveAbandoned               string `env:"atl_db_removeabandoned" yaml:"atl_db_removeabandoned,omitempty"`
	RemoveAbandonedTimeout        string `env:"atl_db_removeabandonedtimeout" yaml:"atl_db_removeabandonedtimeout,omitempty"`
	TestWhileIdle                 string `env:"atl_db_testwhileidle" yaml:"atl_db_testwhileidle,omitempty"`
	TestOnBorrow                  string `env:"atl_db_testonborrow" yaml:"atl_db_testonborrow,omitempty"`
}

// ClusterSettings feeds cluster.properties.
type ClusterSettings struct {
	NodeID     string `env:"jira_node_id" yaml:"jira_node_id,omitempty"`
	SharedHome string `env:"jira_shared_home" yaml:"jira_shared_home,omitempty"`

	EhcachePeerDiscovery               string `env:"ehcache_peer_discovery" yaml:"ehcache_peer_discovery,omitempty"`
	EhcacheListenerHostname            string `env:"ehcache_listener_hostname" yaml:"ehcache_listener_hostname,omitempty"`
	EhcacheListenerPort                string `env:"ehcache_listener_port" yaml:"ehcache_listener_port,omitempty"`
	EhcacheObjectPort                  string `env:"ehcache_object_port" yaml:"ehcache_object_port,omitempty"`
	EhcacheListenerSocketTimeoutMillis string `env:"ehcache_listener_sockettimeoutmillis" yaml:"ehcache_listener_sockettimeoutmillis,omitempty"`
	EhcacheMulticastAddress            string `env:"ehcache_multicast_address" yaml:"ehcache_multicast_address,omitempty"`
	EhcacheMulticastPort               string `env:"ehcache_multicast_port" yaml:"ehcache_multicast_port,omitempty"`
	EhcacheMulticastTimeToLive         string `env:"ehcache_multicast_timetolive" yaml:"ehcache_multicast_timetolive,omitempty"`
	EhcacheMulticastHostname           string `env:"ehcache_multicast_hostname" yaml:"ehcache_multicast_hostname,omitempty"`
}

// ParseSettings decodes the typed settings from context. Missing
// required variables are reported together as one MissingInput fault.
func ParseSettings(context environ.Context) (Settings, error) {
	var settings Settings
	err := env.ParseWithOptions(&settings, env.Options{
		Environment: context.Map(),
	})
	if err != nil {
		return Settings{}, fault.New(fault.MissingInput, fmt.Errorf("decoding settings: %w", err))
	}
	return settings, nil
}
