package service

import (
	"unicode/utf8"

	useragent "github.com/mssola/useragent"
)

const unknownAgent = "Unknown"

// UserAgent 从 User-Agent 头解析出的客户端信息
type UserAgent struct {
	Browser  string
	Version  string
	Platform string
}

// ParseUserAgent 解析浏览器名称、版本与操作系统，无法识别的字段记为 Unknown
func ParseUserAgent(raw string) UserAgent {
	result := UserAgent{Browser: unknownAgent, Platform: unknownAgent}
	if raw == "" {
		return result
	}

	ua := useragent.New(raw)
	if name, version := ua.Browser(); name != "" {
		result.Browser = name
		result.Version = version
	}
	// OS 带版本（如 Windows 10），缺失时退回到 Platform 段
	if osName := ua.OS(); osName != "" {
		result.Platform = osName
	} else if p := ua.Platform(); p != "" {
		result.Platform = p
	}
	return result
}

// truncate 按字符截断，保留至多 n 个 rune
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
