package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors ключ ошибок, не относящихся к конкретному полю.
const NonFieldErrors = "__all__"

// Сообщения об ошибках форм.
const (
	MsgRequired        = "Обязательное поле."
	MsgMaxLength       = "Убедитесь, что это значение содержит не более %s символов."
	MsgPasswordShort   = "Введённый пароль слишком короткий. Он должен содержать как минимум %s символов."
	MsgPasswordNumeric = "Введённый пароль состоит только из цифр."
	MsgPasswordsDiffer = "Введенные пароли не совпадают."
	MsgInvalidSlug     = "Значение должно состоять только из латинских букв, цифр, знаков подчеркивания или дефиса."
	MsgInvalidUsername = "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_."
	MsgUsernameTaken   = "Пользователь с таким именем уже существует."
	MsgEmptySlug       = "Не удалось сформировать slug из заголовка, укажите его вручную."
	MsgInvalidLogin    = "Пожалуйста, введите правильные имя пользователя и пароль. Оба поля могут быть чувствительны к регистру."
	MsgInvalidValue    = "Введите правильное значение."
)

// ErrValidation общая ошибка непройденной проверки формы.
var ErrValidation = errors.New("validation failed")

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	numericPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// ValidationError ошибки формы по полям.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError создает пустой набор ошибок.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// FieldError создает ошибку с одним сообщением для поля.
func FieldError(field, msg string) *ValidationError {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

// Add добавляет сообщение к полю.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Field возвращает сообщения поля.
func (e *ValidationError) Field(field string) []string {
	return e.Fields[field]
}

// NonField возвращает сообщения уровня формы.
func (e *ValidationError) NonField() []string {
	return e.Fields[NonFieldErrors]
}

// HasErrors сообщает, есть ли хотя бы одно сообщение.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is позволяет проверять ошибку через errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NoteForm данные формы заметки.
type NoteForm struct {
	Title string `form:"title" validate:"required,max=100"`
	Text  string `form:"text" validate:"required"`
	Slug  string `form:"slug" validate:"omitempty,max=100,slug"`
}

// Normalize убирает пробелы по краям однострочных полей.
func (f *NoteForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = strings.TrimSpace(f.Slug)
}

// SignupForm данные формы регистрации.
type SignupForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required,min=8,notnumeric"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// LoginForm данные формы входа.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// FormValidator проверяет формы через go-playground/validator.
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator создает валидатор с правилами slug, username и notnumeric.
func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("slug", matchString(slugPattern))
	_ = v.RegisterValidation("username", matchString(usernamePattern))
	_ = v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
		return !numericPattern.MatchString(fl.Field().String())
	})

	return &FormValidator{validate: v}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ValidateNote проверяет форму заметки.
func (v *FormValidator) ValidateNote(form NoteForm) error {
	return v.check(form)
}

// ValidateSignup проверяет форму регистрации.
func (v *FormValidator) ValidateSignup(form SignupForm) error {
	return v.check(form)
}

// ValidateLogin проверяет форму входа.
func (v *FormValidator) ValidateLogin(form LoginForm) error {
	return v.check(form)
}

func (v *FormValidator) check(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	verr := NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf(MsgMaxLength, fe.Param())
	case "min":
		return fmt.Sprintf(MsgPasswordShort, fe.Param())
	case "notnumeric":
		return MsgPasswordNumeric
	case "eqfield":
		return MsgPasswordsDiffer
	case "slug":
		return MsgInvalidSlug
	case "username":
		return MsgInvalidUsername
	default:
		return MsgInvalidValue
	}
}

// SlugFieldError переводит ошибку выбора slug в ошибку поля slug.
// Для прочих ошибок возвращает nil.
func SlugFieldError(err error) *ValidationError {
	var dup *DuplicateSlugError
	switch {
	case errors.As(err, &dup):
		return FieldError("slug", dup.Error())
	case errors.Is(err, ErrEmptySlug):
		return FieldError("slug", MsgEmptySlug)
	default:
		return nil
	}
}
