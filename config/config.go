package config

import (
	"bufio"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/tridis/lib/logger"
)

// ServerProperties defines global config properties
type ServerProperties struct {
	Bind        string `cfg:"bind"`
	Port        int    `cfg:"port"`
	MaxClients  int    `cfg:"maxclients"`
	RequirePass string `cfg:"requirepass"`
	Databases   int    `cfg:"databases"`

	// 任何执行时长大于或等于它的命令都会被慢查询日志记录下来，单位是微秒
	SlowLogLogSlowerThan int64 `cfg:"slowlog-log-slower-than"`
	SlowLogMaxLen        int   `cfg:"slowlog-max-len"`

	// 写命令执行成功后是否向 __keyspace@<db>__:<key> 频道发布事件
	NotifyKeyspaceEvents bool `cfg:"notify-keyspace-events"`

	// MATCH 命令在未显式给出 limit 时使用的上限，0 表示不设上限
	MatchDefaultLimit int `cfg:"match-default-limit"`
}

// Properties holds global config properties
var Properties *ServerProperties

func init() {
	// default config
	Properties = &ServerProperties{
		Bind:                 "127.0.0.1",
		Port:                 6389,
		SlowLogLogSlowerThan: -1,
	}
}

func generateRawMap(src io.Reader) map[string]string {
	rawMap := make(map[string]string)
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) > 0 && line[0] == '#' {
			continue
		}
		pivot := strings.IndexAny(line, " ")
		if pivot > 0 && pivot < len(line)-1 { // separator found
			key := line[0:pivot]
			value := strings.Trim(line[pivot+1:], " ")
			rawMap[strings.ToLower(key)] = value
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal(err)
	}
	return rawMap
}

func parse(src io.Reader) *ServerProperties {
	config := &ServerProperties{}

	rawMap := generateRawMap(src)

	// parse format
	t := reflect.TypeOf(config)
	v := reflect.ValueOf(config)
	n := t.Elem().NumField()
	for i := 0; i < n; i++ {
		field := t.Elem().Field(i)
		fieldVal := v.Elem().Field(i)
		key, ok := field.Tag.Lookup("cfg")
		if !ok {
			key = field.Name
		}
		value, ok := rawMap[strings.ToLower(key)]
		if ok {
			// fill config
			switch field.Type.Kind() {
			case reflect.String:
				fieldVal.SetString(value)
			case reflect.Int, reflect.Int64:
				intValue, err := strconv.ParseInt(value, 10, 64)
				if err == nil {
					fieldVal.SetInt(intValue)
				}
			case reflect.Bool:
				boolValue := "yes" == value
				fieldVal.SetBool(boolValue)
			case reflect.Slice:
				if field.Type.Elem().Kind() == reflect.String {
					slice := strings.Split(value, ",")
					fieldVal.Set(reflect.ValueOf(slice))
				}
			}
		} else {
			slowKey := strings.ToLower(key)
			switch field.Type.Kind() {
			case reflect.Int64:
				// 用户没写慢查询选项就设成 -1，表示不记录
				if slowKey == "slowlog-log-slower-than" {
					fieldVal.SetInt(-1)
				}
			case reflect.Int:
				if slowKey == "slowlog-max-len" {
					fieldVal.SetInt(-1)
				}
			}
		}
	}
	return config
}

// SetupConfig read config file and store properties into Properties
func SetupConfig(configFilename string) {
	file, err := os.Open(configFilename)
	if err != nil {
		panic(err)
	}
	defer file.Close()
	Properties = parse(file)
}

// 读取已载入内存的配置 Properties
func getOnlineConfig() map[string]string {
	onlineMap := make(map[string]string)
	t := reflect.TypeOf(Properties)
	v := reflect.ValueOf(Properties)
	n := t.Elem().NumField()
	for i := 0; i < n; i++ {
		field := t.Elem().Field(i)
		fieldVal := v.Elem().Field(i)
		key, ok := field.Tag.Lookup("cfg")
		if !ok {
			key = field.Name
		}
		switch field.Type.Kind() {
		case reflect.String:
			onlineMap[key] = fieldVal.String()
		case reflect.Int, reflect.Int64:
			onlineMap[key] = strconv.FormatInt(fieldVal.Int(), 10)
		case reflect.Bool:
			if fieldVal.Bool() {
				onlineMap[key] = "yes"
			} else {
				onlineMap[key] = "no"
			}
		case reflect.Slice:
			var temp []string
			for j := 0; j < fieldVal.Len(); j++ {
				temp = append(temp, fieldVal.Index(j).String())
			}
			onlineMap[key] = strings.Join(temp, ",")
		}
	}
	return onlineMap
}

// ReadAllConfig returns the effective config as a flat key-value map
func ReadAllConfig() map[string]string {
	return getOnlineConfig()
}
