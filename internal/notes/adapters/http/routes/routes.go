// Package routes содержит таблицу именованных маршрутов и обратное разрешение имен в пути.
package routes

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Имена маршрутов.
const (
	Home    = "notes:home"
	List    = "notes:list"
	Add     = "notes:add"
	Detail  = "notes:detail"
	Edit    = "notes:edit"
	Delete  = "notes:delete"
	Success = "notes:success"
	Login   = "users:login"
	Logout  = "users:logout"
	Signup  = "users:signup"
	Health  = "healthz"
)

// NextParam параметр запроса с адресом возврата после входа.
const NextParam = "next"

var (
	ErrUnknownRoute  = errors.New("unknown route name")
	ErrArgumentCount = errors.New("wrong number of route arguments")
)

var patterns = map[string]string{
	Home:    "/",
	List:    "/notes/",
	Add:     "/add/",
	Detail:  "/note/:slug/",
	Edit:    "/edit/:slug/",
	Delete:  "/delete/:slug/",
	Success: "/done/",
	Login:   "/auth/login/",
	Logout:  "/auth/logout/",
	Signup:  "/auth/signup/",
	Health:  "/healthz",
}

// Names возвращает имена всех маршрутов в алфавитном порядке.
func Names() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pattern возвращает шаблон пути маршрута в синтаксисе fiber.
func Pattern(name string) (string, error) {
	p, ok := patterns[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	return p, nil
}

// Reverse подставляет аргументы в параметры маршрута по порядку.
func Reverse(name string, args ...string) (string, error) {
	pattern, err := Pattern(name)
	if err != nil {
		return "", err
	}

	segments := strings.Split(pattern, "/")
	used := 0
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if used >= len(args) {
			return "", fmt.Errorf("%w: %s", ErrArgumentCount, name)
		}
		segments[i] = url.PathEscape(args[used])
		used++
	}
	if used != len(args) {
		return "", fmt.Errorf("%w: %s", ErrArgumentCount, name)
	}
	return strings.Join(segments, "/"), nil
}

// URL как Reverse, но паникует на неизвестном имени. Для имен-констант пакета.
func URL(name string, args ...string) string {
	path, err := Reverse(name, args...)
	if err != nil {
		panic(err)
	}
	return path
}

// LoginRedirect адрес страницы входа с возвратом на next. Слэши в next не экранируются.
func LoginRedirect(next string) string {
	login := URL(Login)
	if next == "" {
		return login
	}
	return login + "?" + NextParam + "=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext возвращает next, только если это путь внутри сайта.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
