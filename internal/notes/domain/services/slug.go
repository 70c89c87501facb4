// Package services содержит доменные политики: slug, доступ к заметкам и проверку форм.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"yanote/internal/notes/domain/entities"
)

// SlugWarning окончание сообщения о занятом slug.
const SlugWarning = " - такой slug уже существует, придумайте уникальное значение!"

// ErrEmptySlug заголовок не содержит символов, из которых можно получить slug.
var ErrEmptySlug = errors.New("slug cannot be derived from title")

// DuplicateSlugError slug уже используется другой заметкой.
type DuplicateSlugError struct {
	Slug string
}

func (e *DuplicateSlugError) Error() string {
	return e.Slug + SlugWarning
}

// Is позволяет сравнивать ошибку с entities.ErrSlugTaken.
func (e *DuplicateSlugError) Is(target error) bool {
	return target == entities.ErrSlugTaken
}

// SlugLookup проверяет занятость slug. excludeID исключает редактируемую заметку.
type SlugLookup interface {
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

// Slugify транслитерирует заголовок и приводит его к виду slug не длиннее MaxSlugLength.
// Результат детерминирован, повторное применение его не меняет.
func Slugify(title string) string {
	s := slug.Make(title)
	if len(s) > entities.MaxSlugLength {
		s = s[:entities.MaxSlugLength]
	}
	return strings.Trim(s, "-")
}

// SlugPolicy выбирает slug для заметки и проверяет его уникальность.
type SlugPolicy struct {
	lookup SlugLookup
}

// NewSlugPolicy создает политику поверх источника существующих slug.
func NewSlugPolicy(lookup SlugLookup) *SlugPolicy {
	return &SlugPolicy{lookup: lookup}
}

// Resolve возвращает явный slug или выведенный из заголовка, если он свободен.
// excludeID пуст при создании заметки.
func (p *SlugPolicy) Resolve(ctx context.Context, title, explicit, excludeID string) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = Slugify(title)
	}
	if candidate == "" {
		return "", ErrEmptySlug
	}

	exists, err := p.lookup.SlugExists(ctx, candidate, excludeID)
	if err != nil {
		return "", fmt.Errorf("check slug uniqueness: %w", err)
	}
	if exists {
		return "", &DuplicateSlugError{Slug: candidate}
	}
	return candidate, nil
}
