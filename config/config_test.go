package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := "bind 0.0.0.0\n" +
		"port 6399\n" +
		"# comment line\n" +
		"maxclients 128\n" +
		"requirepass topsecret\n" +
		"databases 4\n" +
		"slowlog-log-slower-than 1000\n" +
		"slowlog-max-len 32\n" +
		"notify-keyspace-events yes\n" +
		"match-default-limit 100\n"
	p := parse(strings.NewReader(src))
	if p.Bind != "0.0.0.0" {
		t.Errorf("wrong bind: %s", p.Bind)
	}
	if p.Port != 6399 {
		t.Errorf("wrong port: %d", p.Port)
	}
	if p.MaxClients != 128 {
		t.Errorf("wrong maxclients: %d", p.MaxClients)
	}
	if p.RequirePass != "topsecret" {
		t.Errorf("wrong requirepass: %s", p.RequirePass)
	}
	if p.Databases != 4 {
		t.Errorf("wrong databases: %d", p.Databases)
	}
	if p.SlowLogLogSlowerThan != 1000 {
		t.Errorf("wrong slowlog-log-slower-than: %d", p.SlowLogLogSlowerThan)
	}
	if p.SlowLogMaxLen != 32 {
		t.Errorf("wrong slowlog-max-len: %d", p.SlowLogMaxLen)
	}
	if !p.NotifyKeyspaceEvents {
		t.Error("notify-keyspace-events should be enabled")
	}
	if p.MatchDefaultLimit != 100 {
		t.Errorf("wrong match-default-limit: %d", p.MatchDefaultLimit)
	}
}

func TestParseDefaults(t *testing.T) {
	p := parse(strings.NewReader("bind 127.0.0.1\n"))
	if p.SlowLogLogSlowerThan != -1 {
		t.Errorf("slowlog-log-slower-than should default to -1, got %d", p.SlowLogLogSlowerThan)
	}
	if p.SlowLogMaxLen != -1 {
		t.Errorf("slowlog-max-len should default to -1, got %d", p.SlowLogMaxLen)
	}
	if p.NotifyKeyspaceEvents {
		t.Error("notify-keyspace-events should default to off")
	}
	if p.MatchDefaultLimit != 0 {
		t.Errorf("match-default-limit should default to 0, got %d", p.MatchDefaultLimit)
	}
}

func TestReadAllConfig(t *testing.T) {
	backup := Properties
	defer func() {
		Properties = backup
	}()
	Properties = &ServerProperties{
		Bind:                 "127.0.0.1",
		Port:                 6389,
		NotifyKeyspaceEvents: true,
	}
	all := ReadAllConfig()
	if all["bind"] != "127.0.0.1" {
		t.Errorf("wrong bind: %s", all["bind"])
	}
	if all["port"] != "6389" {
		t.Errorf("wrong port: %s", all["port"])
	}
	if all["notify-keyspace-events"] != "yes" {
		t.Errorf("wrong notify-keyspace-events: %s", all["notify-keyspace-events"])
	}
	if all["requirepass"] != "" {
		t.Errorf("wrong requirepass: %s", all["requirepass"])
	}
}
