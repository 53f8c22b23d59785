package core

import (
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

const MaxTitleLength = 40

var validate = newValidate()

func newValidate() *validator.Validate {
	var v = validator.New()
	// report form field names instead of struct field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	// maxbytes limits the length in bytes, unlike max, which counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// PostForm is a post submission.
type PostForm struct {
	Title      string   `form:"title" validate:"required,max=40"`
	AuthorID   int      `form:"author" validate:"required"`
	Type       PostType `form:"type" validate:"required,oneof=article news"`
	CategoryID int      `form:"category" validate:"required"`
	Text       string   `form:"text" validate:"required"`
}

// ParsePostForm reads a PostForm from submitted form values.
// Malformed ids are mapped to -1, so they fail as an invalid choice and not as a missing field.
func ParsePostForm(values url.Values) *PostForm {
	return &PostForm{
		Title:      values.Get("title"),
		AuthorID:   parseID(values.Get("author")),
		Type:       PostType(values.Get("type")),
		CategoryID: parseID(values.Get("category")),
		Text:       values.Get("text"),
	}
}

func parseID(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return id
}

// FormOf returns a PostForm which is filled with the fields of p.
func FormOf(p *Post) *PostForm {
	return &PostForm{
		Title:      p.Title,
		AuthorID:   p.AuthorID,
		Type:       p.Type,
		CategoryID: p.CategoryID,
		Text:       p.Text,
	}
}

func (form *PostForm) normalize() {
	form.Title = strings.TrimSpace(form.Title)
	form.Text = strings.TrimSpace(form.Text)
}

func (form *PostForm) applyTo(p *Post) {
	p.Title = form.Title
	p.AuthorID = form.AuthorID
	p.Type = form.Type
	p.CategoryID = form.CategoryID
	p.Text = form.Text
}

// ValidatePost normalizes the form and checks it. All failures are returned together as ValidationErrors.
// The title is compared to the text only if both passed their own checks.
func (c *CoreDB) ValidatePost(form *PostForm) error {

	form.normalize()

	errs, failed, err := checkStruct(form)
	if err != nil {
		return err
	}

	if !failed["author"] {
		if _, err := c.AuthorDB.GetAuthor(form.AuthorID); errors.Is(err, ErrNotFound) {
			errs = append(errs, InvalidChoiceError{Field: "author"})
		} else if err != nil {
			return err
		}
	}

	if !failed["category"] {
		if _, err := c.CategoryDB.GetCategory(form.CategoryID); errors.Is(err, ErrNotFound) {
			errs = append(errs, InvalidChoiceError{Field: "category"})
		} else if err != nil {
			return err
		}
	}

	if !failed["title"] && !failed["text"] && form.Title == form.Text {
		errs = append(errs, DuplicateContentError{})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkStruct runs the struct tag validation and translates its failures.
// The returned map contains the names of the fields which failed.
func checkStruct(s interface{}) (ValidationErrors, map[string]bool, error) {

	var errs ValidationErrors
	var failed = make(map[string]bool)

	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, nil, err
		}
		for _, fe := range fieldErrs {
			failed[fe.Field()] = true
			switch fe.Tag() {
			case "required":
				errs = append(errs, MissingFieldError{Field: fe.Field()})
			case "max":
				n, _ := strconv.Atoi(fe.Param())
				errs = append(errs, FieldTooLongError{Field: fe.Field(), Max: n})
			case "oneof":
				errs = append(errs, InvalidChoiceError{Field: fe.Field()})
			default:
				errs = append(errs, InvalidFieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
		}
	}

	return errs, failed, nil
}

// FieldInfo is presentation metadata of a form field.
type FieldInfo struct {
	Name        string
	Label       string
	Placeholder string
}

var postFields = map[string][]FieldInfo{
	"en": {
		{"title", "Title", "Enter a title"},
		{"author", "Author", "Name of the author"},
		{"type", "Type", ""},
		{"category", "Category", "Category of the post"},
		{"text", "Text", "Enter the text here"},
	},
	"ru": {
		{"title", "Название статьи", "Введите название"},
		{"author", "Автор", "Имя автора"},
		{"type", "Тип", ""},
		{"category", "Категория статьи", "Введите категорию статьи"},
		{"text", "Текст статьи", "Введите текст здесь"},
	},
}

// PostFields returns labels and placeholders of the post form fields, keyed by field name.
func PostFields(lang language.Tag) map[string]FieldInfo {
	var result = make(map[string]FieldInfo)
	for _, f := range postFields[langKey(lang)] {
		result[f.Name] = f
	}
	return result
}
