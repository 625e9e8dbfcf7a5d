package domain

import (
	"net/url"
	"strings"
)

// QueryParam - одна пара ключ-значение запроса.
type QueryParam struct {
	Key   string
	Value string
}

// Query - упорядоченный набор параметров запроса списка объявлений.
// В отличие от url.Values порядок параметров сохраняется.
type Query []QueryParam

// Get возвращает значение первого параметра с указанным ключом.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has сообщает, присутствует ли ключ в запросе.
func (q Query) Has(key string) bool {
	_, ok := q.Get(key)
	return ok
}

// Keys возвращает ключи в порядке следования.
func (q Query) Keys() []string {
	keys := make([]string, len(q))
	for i, p := range q {
		keys[i] = p.Key
	}
	return keys
}

// Encode кодирует запрос в строку вида "a=1&b=2" с сохранением порядка.
func (q Query) Encode() string {
	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
