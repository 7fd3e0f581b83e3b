package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tridis/lib/logger"
	"github.com/tridis/redis/client"
)

// 把用户输入的一行命令转成二维 byte 数组
func toCmdLine(s string) [][]byte {
	fields := strings.Fields(strings.TrimSpace(s))
	ret := make([][]byte, 0, len(fields))
	for _, item := range fields {
		ret = append(ret, []byte(item))
	}
	return ret
}

func formatReply(bs []byte) string {
	if len(bs) == 0 {
		return "(empty reply)"
	}
	switch bs[0] {
	case '+':
		return strings.TrimSpace(string(bs[1:]))
	case '-':
		return "(error) " + strings.TrimSpace(string(bs[1:]))
	case ':':
		return "(integer) " + strings.TrimSpace(string(bs[1:]))
	case '$':
		lines := strings.Split(string(bs), "\r\n")
		if lines[0] == "$-1" {
			return "(nil)"
		}
		if len(lines) < 2 {
			return ""
		}
		return "\"" + lines[1] + "\""
	case '*':
		lines := strings.Split(string(bs), "\r\n")
		if lines[0] == "*0" {
			return "(empty array)"
		}
		var out []string
		idx := 1
		for i := 1; i < len(lines); i++ {
			line := lines[i]
			if line == "" {
				continue
			}
			if line[0] == '$' {
				if line == "$-1" {
					out = append(out, fmt.Sprintf("%d) (nil)", idx))
					idx++
				}
				continue
			}
			if line[0] == ':' {
				out = append(out, fmt.Sprintf("%d) (integer) %s", idx, line[1:]))
				idx++
				continue
			}
			out = append(out, fmt.Sprintf("%d) \"%s\"", idx, line))
			idx++
		}
		return strings.Join(out, "\n")
	}
	return "(unsupported reply)"
}

// pipeline 模式的命令行客户端，服务端未响应时仍可继续发请求
func repl(addr string) {
	redisClient, err := client.MakeClient(addr)
	if err != nil {
		logger.Error("connect failed: ", err)
		return
	}
	redisClient.Start()
	defer redisClient.Close()

	inputReader := bufio.NewReader(os.Stdin)
	prompt := addr + "> "
	for {
		fmt.Print(prompt)
		input, err := inputReader.ReadString('\n')
		if err != nil {
			return
		}
		if strings.ToUpper(strings.TrimSpace(input)) == "QUIT" {
			return
		}
		cmdLine := toCmdLine(input)
		if len(cmdLine) == 0 {
			continue
		}
		result := redisClient.Send(cmdLine)
		if result != nil {
			fmt.Println(formatReply(result.ToBytes()))
		}
	}
}

func main() {
	addr := flag.String("addr", "127.0.0.1:6389", "server address")
	flag.Parse()
	repl(*addr)
}
