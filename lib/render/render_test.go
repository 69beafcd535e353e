// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

//go:generate go test -run . -update
package render_test

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/fault"
	"github.com/jira-docker/entrypoint/lib/render"
	"github.com/jira-docker/entrypoint/templates"
)

const fixedUUID = "0123456789abcdef0123456789abcdef"

func imageContext(extra map[string]string) environ.Context {
	entries := map[string]string{
		"JIRA_INSTALL_DIR": "/opt/atlassian/jira",
		"JIRA_HOME":        "/var/atlassian/application-data/jira",
		"RUN_USER":         "jira",
		"RUN_GROUP":        "jira",
		"uuid":             fixedUUID,
	}
	for key, value := range extra {
		entries[key] = value
	}
	return environ.NewContext(entries)
}

func embeddedRenderer() *render.FSRenderer {
	return render.NewFSRenderer(templates.FS)
}

type serverDocument struct {
	XMLName   xml.Name        `xml:"Server"`
	Port      string          `xml:"port,attr"`
	Connector elementWithAttr `xml:"Service>Connector"`
	Context   elementWithAttr `xml:"Service>Engine>Host>Context"`
}

type elementWithAttr struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// attr returns the attribute value and whether the attribute is present.
func (e elementWithAttr) attr(name string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func renderServer(t *testing.T, context environ.Context) serverDocument {
	t.Helper()
	got, err := embeddedRenderer().Render(templates.ServerXML, context)
	require.NoError(t, err, "Failed to render %s", templates.ServerXML)

	var document serverDocument
	require.NoError(t, xml.Unmarshal([]byte(got), &document), "rendered server.xml is not well-formed")
	return document
}

func TestServerXML_RenderMatchesGolden(t *testing.T) {
	g := goldie.New(t)

	got, err := embeddedRenderer().Render(templates.ServerXML, imageContext(nil))
	require.NoError(t, err)

	g.Assert(t, "server_xml_defaults", []byte(got))
}

func TestServerXML_Defaults(t *testing.T) {
	document := renderServer(t, imageContext(nil))

	assert.Equal(t, "8000", document.Port)

	defaults := map[string]string{
		"port":              "8080",
		"maxThreads":        "100",
		"minSpareThreads":   "10",
		"connectionTimeout": "20000",
		"enableLookups":     "false",
		"protocol":          "HTTP/1.1",
		"acceptCount":       "10",
		"secure":            "false",
		"scheme":            "http",
		"proxyName":         "",
		"proxyPort":         "",
	}
	for name, want := range defaults {
		got, present := document.Connector.attr(name)
		assert.True(t, present, "connector attribute %s missing", name)
		assert.Equal(t, want, got, "connector attribute %s", name)
	}

	path, present := document.Context.attr("path")
	assert.True(t, present)
	assert.Empty(t, path)
}

func TestServerXML_Params(t *testing.T) {
	environment := map[string]string{
		"ATL_TOMCAT_MGMT_PORT":         "8006",
		"ATL_TOMCAT_PORT":              "9090",
		"ATL_TOMCAT_MAXTHREADS":        "201",
		"ATL_TOMCAT_MINSPARETHREADS":   "11",
		"ATL_TOMCAT_CONNECTIONTIMEOUT": "20001",
		"ATL_TOMCAT_ENABLELOOKUPS":     "true",
		"ATL_TOMCAT_PROTOCOL":          "HTTP/2",
		"ATL_TOMCAT_ACCEPTCOUNT":       "11",
		"ATL_TOMCAT_SECURE":            "true",
		"ATL_TOMCAT_SCHEME":            "https",
		"ATL_PROXY_NAME":               "jira.atlassian.com",
		"ATL_PROXY_PORT":               "443",
		"ATL_TOMCAT_CONTEXTPATH":       "/myjira",
	}
	document := renderServer(t, imageContext(environment))

	assert.Equal(t, environment["ATL_TOMCAT_MGMT_PORT"], document.Port)

	connector := map[string]string{
		"port":              "ATL_TOMCAT_PORT",
		"maxThreads":        "ATL_TOMCAT_MAXTHREADS",
		"minSpareThreads":   "ATL_TOMCAT_MINSPARETHREADS",
		"connectionTimeout": "ATL_TOMCAT_CONNECTIONTIMEOUT",
		"enableLookups":     "ATL_TOMCAT_ENABLELOOKUPS",
		"protocol":          "ATL_TOMCAT_PROTOCOL",
		"acceptCount":       "ATL_TOMCAT_ACCEPTCOUNT",
		"secure":            "ATL_TOMCAT_SECURE",
		"scheme":            "ATL_TOMCAT_SCHEME",
		"proxyName":         "ATL_PROXY_NAME",
		"proxyPort":         "ATL_PROXY_PORT",
	}
	for attribute, variable := range connector {
		got, _ := document.Connector.attr(attribute)
		assert.Equal(t, environment[variable], got, "connector attribute %s", attribute)
	}

	path, _ := document.Context.attr("path")
	assert.Equal(t, environment["ATL_TOMCAT_CONTEXTPATH"], path)
}

func TestServerXML_PortAndThreadsOnly(t *testing.T) {
	document := renderServer(t, imageContext(map[string]string{
		"ATL_TOMCAT_PORT":       "9090",
		"ATL_TOMCAT_MAXTHREADS": "201",
	}))

	want := map[string]string{
		"port":              "9090",
		"maxThreads":        "201",
		"minSpareThreads":   "10",
		"connectionTimeout": "20000",
		"enableLookups":     "false",
		"protocol":          "HTTP/1.1",
		"acceptCount":       "10",
		"secure":            "false",
		"scheme":            "http",
		"proxyName":         "",
		"proxyPort":         "",
	}
	for name, value := range want {
		got, _ := document.Connector.attr(name)
		assert.Equal(t, value, got, "connector attribute %s", name)
	}
}

func TestServerXML_EmptyValueIsNotDefaulted(t *testing.T) {
	document := renderServer(t, imageContext(map[string]string{
		"ATL_TOMCAT_PORT":      "",
		"ATL_TOMCAT_MGMT_PORT": "",
	}))

	port, present := document.Connector.attr("port")
	assert.True(t, present)
	assert.Equal(t, "", port, "a variable set to \"\" renders verbatim")
	assert.Equal(t, "", document.Port)

	maxThreads, _ := document.Connector.attr("maxThreads")
	assert.Equal(t, "100", maxThreads, "unset variables still get their default")
}

func TestGetOr(t *testing.T) {
	root := fstest.MapFS{
		"value.tmpl": {Data: []byte(`[{{ getOr . "port" "8080" }}]`)},
	}
	renderer := render.NewFSRenderer(root)

	tests := []struct {
		name    string
		entries map[string]string
		want    string
	}{
		{"unset", nil, "[8080]"},
		{"empty", map[string]string{"PORT": ""}, "[]"},
		{"set", map[string]string{"PORT": "9090"}, "[9090]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := renderer.Render("value.tmpl", environ.NewContext(test.entries))
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestServerXML_EscapesValues(t *testing.T) {
	hostile := `jira"><Evil a="&amp;'`
	document := renderServer(t, imageContext(map[string]string{"ATL_PROXY_NAME": hostile}))

	got, _ := document.Connector.attr("proxyName")
	assert.Equal(t, hostile, got, "value must survive the XML round trip verbatim")
}

func TestDatabaseConfig(t *testing.T) {
	type datasource struct {
		URL                           string `xml:"url"`
		Driver                        string `xml:"driver-class"`
		Username                      string `xml:"username"`
		Password                      string `xml:"password"`
		PoolMinSize                   string `xml:"pool-min-size"`
		PoolMaxSize                   string `xml:"pool-max-size"`
		PoolMinIdle                   string `xml:"pool-min-idle"`
		PoolMaxIdle                   string `xml:"pool-max-idle"`
		PoolMaxWait                   string `xml:"pool-max-wait"`
		ValidationQuery               string `xml:"validation-query"`
		TimeBetweenEvictionRunsMillis string `xml:"time-between-eviction-runs-millis"`
		MinEvictableIdleTimeMillis    string `xml:"min-evictable-idle-time-millis"`
		RemoveAbandoned               string `xml:"pool-remove-abandoned"`
		RemoveAbandonedTimeout        string `xml:"pool-remove-abandoned-timeout"`
		TestWhileIdle                 string `xml:"pool-test-while-idle"`
		TestOnBorrow                  string `xml:"pool-test-on-borrow"`
	}
	type document struct {
		DatabaseType string     `xml:"database-type"`
		SchemaName   *string    `xml:"schema-name"`
		Datasource   datasource `xml:"jdbc-datasource"`
	}

	connection := map[string]string{
		"ATL_DB_TYPE":       "postgres72",
		"ATL_DB_DRIVER":     "org.postgresql.Driver",
		"ATL_JDBC_URL":      "jdbc:postgresql://mypostgres.mycompany.org:5432/jiradb?ssl=true&sslmode=require",
		"ATL_JDBC_USER":     "jiradbuser",
		"ATL_JDBC_PASSWORD": "jira<db>password&",
	}

	renderDatabase := func(t *testing.T, extra map[string]string) document {
		t.Helper()
		entries := map[string]string{}
		for key, value := range connection {
			entries[key] = value
		}
		for key, value := range extra {
			entries[key] = value
		}
		got, err := embeddedRenderer().Render(templates.DatabaseConfigXML, imageContext(entries))
		require.NoError(t, err)
		var parsed document
		require.NoError(t, xml.Unmarshal([]byte(got), &parsed))
		return parsed
	}

	t.Run("empty pool setting", func(t *testing.T) {
		parsed := renderDatabase(t, map[string]string{"ATL_DB_POOLMINSIZE": ""})
		assert.Equal(t, "", parsed.Datasource.PoolMinSize)
		assert.Equal(t, "100", parsed.Datasource.PoolMaxSize)
	})

	t.Run("defaults", func(t *testing.T) {
		parsed := renderDatabase(t, nil)

		assert.Equal(t, "postgres72", parsed.DatabaseType)
		assert.Nil(t, parsed.SchemaName, "schema-name emitted without ATL_DB_SCHEMA_NAME")
		assert.Equal(t, connection["ATL_JDBC_URL"], parsed.Datasource.URL)
		assert.Equal(t, connection["ATL_DB_DRIVER"], parsed.Datasource.Driver)
		assert.Equal(t, connection["ATL_JDBC_USER"], parsed.Datasource.Username)
		assert.Equal(t, connection["ATL_JDBC_PASSWORD"], parsed.Datasource.Password)

		assert.Equal(t, "20", parsed.Datasource.PoolMinSize)
		assert.Equal(t, "100", parsed.Datasource.PoolMaxSize)
		assert.Equal(t, "10", parsed.Datasource.PoolMinIdle)
		assert.Equal(t, "20", parsed.Datasource.PoolMaxIdle)
		assert.Equal(t, "30000", parsed.Datasource.PoolMaxWait)
		assert.Equal(t, "select 1", parsed.Datasource.ValidationQuery)
		assert.Equal(t, "30000", parsed.Datasource.TimeBetweenEvictionRunsMillis)
		assert.Equal(t, "5000", parsed.Datasource.MinEvictableIdleTimeMillis)
		assert.Equal(t, "true", parsed.Datasource.RemoveAbandoned)
		assert.Equal(t, "300", parsed.Datasource.RemoveAbandonedTimeout)
		assert.Equal(t, "true", parsed.Datasource.TestWhileIdle)
		assert.Equal(t, "false", parsed.Datasource.TestOnBorrow)
	})

	t.Run("params", func(t *testing.T) {
		parsed := renderDatabase(t, map[string]string{
			"ATL_DB_SCHEMA_NAME":                   "public",
			"ATL_DB_MAXIDLE":                       "21",
			"ATL_DB_MAXWAITMILLIS":                 "30001",
			"ATL_DB_MINEVICTABLEIDLETIMEMILLIS":    "5001",
			"ATL_DB_MINIDLE":                       "11",
			"ATL_DB_POOLMAXSIZE":                   "101",
			"ATL_DB_POOLMINSIZE":                   "21",
			"ATL_DB_REMOVEABANDONED":               "false",
			"ATL_DB_REMOVEABANDONEDTIMEOUT":        "301",
			"ATL_DB_TESTONBORROW":                  "true",
			"ATL_DB_TESTWHILEIDLE":                 "false",
			"ATL_DB_TIMEBETWEENEVICTIONRUNSMILLIS": "30001",
			"ATL_DB_VALIDATIONQUERY":               "select 2",
		})

		require.NotNil(t, parsed.SchemaName)
		assert.Equal(t, "public", *parsed.SchemaName)
		assert.Equal(t, "21", parsed.Datasource.PoolMinSize)
		assert.Equal(t, "101", parsed.Datasource.PoolMaxSize)
		assert.Equal(t, "11", parsed.Datasource.PoolMinIdle)
		assert.Equal(t, "21", parsed.Datasource.PoolMaxIdle)
		assert.Equal(t, "30001", parsed.Datasource.PoolMaxWait)
		assert.Equal(t, "select 2", parsed.Datasource.ValidationQuery)
		assert.Equal(t, "30001", parsed.Datasource.TimeBetweenEvictionRunsMillis)
		assert.Equal(t, "5001", parsed.Datasource.MinEvictableIdleTimeMillis)
		assert.Equal(t, "false", parsed.Datasource.RemoveAbandoned)
		assert.Equal(t, "301", parsed.Datasource.RemoveAbandonedTimeout)
		assert.Equal(t, "false", parsed.Datasource.TestWhileIdle)
		assert.Equal(t, "true", parsed.Datasource.TestOnBorrow)
	})
}

func TestClusterProperties_Defaults_Golden(t *testing.T) {
	g := goldie.New(t)

	got, err := embeddedRenderer().Render(templates.ClusterProperties, imageContext(nil))
	require.NoError(t, err)

	g.Assert(t, "cluster_properties_defaults", []byte(got))
}

func TestClusterProperties_Params_Golden(t *testing.T) {
	g := goldie.New(t)

	got, err := embeddedRenderer().Render(templates.ClusterProperties, imageContext(map[string]string{
		"CLUSTERED":                            "true",
		"JIRA_NODE_ID":                         "jiradc1",
		"JIRA_SHARED_HOME":                     "/data/shared",
		"EHCACHE_PEER_DISCOVERY":               "default",
		"EHCACHE_LISTENER_HOSTNAME":            "jiradc1.local",
		"EHCACHE_LISTENER_PORT":                "40002",
		"EHCACHE_OBJECT_PORT":                  "40003",
		"EHCACHE_LISTENER_SOCKETTIMEOUTMILLIS": "2001",
		"EHCACHE_MULTICAST_ADDRESS":            "1.2.3.4",
		"EHCACHE_MULTICAST_PORT":               "40004",
		"EHCACHE_MULTICAST_TIMETOLIVE":         "1000",
		"EHCACHE_MULTICAST_HOSTNAME":           "jiradc1.local",
	}))
	require.NoError(t, err)

	g.Assert(t, "cluster_properties_params", []byte(got))
}

func TestClusterProperties_NodeIDFromPreviousRun(t *testing.T) {
	got, err := embeddedRenderer().Render(templates.ClusterProperties, imageContext(map[string]string{
		environ.KeyLocalContainerID: "previous-run-id",
	}))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "jira.node.id=previous-run-id\n"), "got %q", got)
}

func TestContainerID(t *testing.T) {
	got, err := embeddedRenderer().Render(templates.ContainerID, imageContext(nil))
	require.NoError(t, err)
	assert.Equal(t, fixedUUID+"\n", got)
}

func TestAllTemplatesCanRender(t *testing.T) {
	names := []string{
		templates.ServerXML,
		templates.ContainerID,
		templates.DatabaseConfigXML,
		templates.ClusterProperties,
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, err := embeddedRenderer().Render(name, imageContext(nil))
			require.NoError(t, err, "Template %q failed to render with image defaults", name)
		})
	}
}

func TestRendererErrors(t *testing.T) {
	root := fstest.MapFS{
		"strict.properties.tmpl": {Data: []byte("home={{ .jira_home }}\n")},
		"broken.xml.tmpl":        {Data: []byte("<a>{{ if }}</a>")},
	}

	tests := []struct {
		name       string
		template   string
		context    environ.Context
		wantErrMsg string
	}{
		{
			name:       "Template not found",
			template:   "non_existent.xml.tmpl",
			context:    imageContext(nil),
			wantErrMsg: `template "non_existent.xml.tmpl" not found`,
		},
		{
			name:       "Undefined key in strict mode",
			template:   "strict.properties.tmpl",
			context:    environ.NewContext(nil),
			wantErrMsg: "executing template",
		},
		{
			name:       "Malformed template",
			template:   "broken.xml.tmpl",
			context:    imageContext(nil),
			wantErrMsg: "parsing template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := render.NewFSRenderer(root).Render(tt.template, tt.context)
			require.Error(t, err, "Expected an error but got none")
			assert.True(t, errors.Is(err, fault.TemplateError), "error kind = %q", fault.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantErrMsg, "Error message mismatch")
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]render.Format{
		"server.xml.tmpl":         render.FormatXML,
		"dbconfig.XML.tmpl":       render.FormatXML,
		"conf/server.xml":         render.FormatXML,
		"cluster.properties.tmpl": render.FormatPlain,
		"container_id.tmpl":       render.FormatPlain,
		"xml.tmpl":                render.FormatPlain,
	}
	for name, want := range tests {
		assert.Equal(t, want, render.FormatOf(name), "FormatOf(%q)", name)
	}
}

func TestPlainFormatDoesNotEscape(t *testing.T) {
	root := fstest.MapFS{"value.properties.tmpl": {Data: []byte(`v={{ get . "raw" }}`)}}
	got, err := render.NewFSRenderer(root).Render("value.properties.tmpl", environ.NewContext(map[string]string{"RAW": `a&b<c>"d"`}))
	require.NoError(t, err)
	assert.Equal(t, `v=a&b<c>"d"`, got)
}

func TestOpenTemplates(t *testing.T) {
	t.Run("missing directory falls back to embedded", func(t *testing.T) {
		root, embedded, err := render.OpenTemplates(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.True(t, embedded)
		_, err = render.NewFSRenderer(root).Render(templates.ContainerID, imageContext(nil))
		assert.NoError(t, err)
	})

	t.Run("existing directory is the only root", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.tmpl"), []byte("id={{ .uuid }}"), 0644))

		root, embedded, err := render.OpenTemplates(dir)
		require.NoError(t, err)
		assert.False(t, embedded)

		got, err := render.NewFSRenderer(root).Render("custom.tmpl", imageContext(nil))
		require.NoError(t, err)
		assert.Equal(t, "id="+fixedUUID, got)

		_, err = render.NewFSRenderer(root).Render(templates.ServerXML, imageContext(nil))
		assert.True(t, errors.Is(err, fault.TemplateError), "embedded templates must not leak into a configured directory")
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, nil, 0644))
		_, _, err := render.OpenTemplates(path)
		assert.True(t, errors.Is(err, fault.FilesystemError))
	})
}

func TestFuncRenderer(t *testing.T) {
	var renderer render.Renderer = render.Func(func(name string, context environ.Context) (string, error) {
		return name + ":" + context.Value("run_user"), nil
	})
	got, err := renderer.Render("stub.tmpl", imageContext(nil))
	require.NoError(t, err)
	assert.Equal(t, "stub.tmpl:jira", got)
}
