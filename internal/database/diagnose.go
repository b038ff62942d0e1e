// Package database はストアへの接続と接続エラーの診断を扱います。
package database

import (
	"net/url"
	"regexp"
	"strings"
)

var credentialsPattern = regexp.MustCompile(`//[^/@]*@`)

// MaskURI は接続文字列の認証情報を ***:*** に置き換えます。
func MaskURI(uri string) string {
	return credentialsPattern.ReplaceAllString(uri, "//***:***@")
}

// Diagnose は接続エラーから考えられる対処法を返します。該当するものが無ければ nil です。
func Diagnose(err error) []string {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())

	var hints []string
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "econnrefused") || strings.Contains(msg, "server selection error") {
		hints = append(hints,
			"Make sure the database server is running and reachable",
			"Check the host and port in the connection string",
		)
	}
	if strings.Contains(msg, "authentication failed") || strings.Contains(msg, "access denied") {
		hints = append(hints, "Check your database username and password")
	}
	if strings.Contains(msg, "mongodb_uri") || strings.Contains(msg, "db_user") || strings.Contains(msg, "db_name") {
		hints = append(hints, "Check your .env file contains the database settings")
	}
	if strings.Contains(msg, "no such host") {
		hints = append(hints, "The database host name could not be resolved")
	}
	return hints
}

// HostOf は接続文字列のホスト部分を返します。解析できない場合は空文字です。
func HostOf(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Host
}
