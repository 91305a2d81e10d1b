package lingo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
	"google.golang.org/grpc/metadata"
)

type contextKey string

func (c contextKey) String() string {
	return "lingo/" + string(c)
}

const ctxKeyLanguage = contextKey("languageKey")

// ToContext adds language preferences to the current supplied context.
func ToContext(ctx context.Context, lang []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, lang)
}

// FromContext extracts language preferences from the supplied context if any exist.
func FromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}

// Manager translates message ids using a bundle populated through the
// prioritized source chain rather than only from files on disk.
type Manager interface {
	Bundle() *i18n.Bundle
	Translate(ctx context.Context, request any, messageID string) string
	TranslateWithMap(
		ctx context.Context,
		request any,
		messageID string,
		variables map[string]any,
	) string
	TranslateWithMapAndCount(
		ctx context.Context,
		request any,
		messageID string,
		variables map[string]any,
		count int,
	) string
	LoadMessageFile(path string) error
}

type managerImpl struct {
	bundle *i18n.Bundle
}

// NewManager resolves each locale through the loader chain and collects the
// results into a translation bundle.
func NewManager(ctx context.Context, loader *Loader, defaultLanguage language.Tag, locales ...string) (Manager, error) {
	bundle := i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, locale := range locales {
		messages, err := loader.Load(ctx, locale)
		if err != nil {
			return nil, fmt.Errorf("resolve translations for %q: %w", locale, err)
		}

		data, err := json.Marshal(messages)
		if err != nil {
			return nil, err
		}

		if _, err = bundle.ParseMessageFileBytes(data, fmt.Sprintf("messages.%s.json", locale)); err != nil {
			return nil, fmt.Errorf("register translations for %q: %w", locale, err)
		}
	}

	return &managerImpl{bundle: bundle}, nil
}

// Bundle accesses the translation bundle held by the manager.
func (s *managerImpl) Bundle() *i18n.Bundle {
	return s.bundle
}

// LoadMessageFile adds a static message file to the bundle, json or toml by
// extension.
func (s *managerImpl) LoadMessageFile(path string) error {
	_, err := s.bundle.LoadMessageFile(path)
	return err
}

// Translate performs a quick translation based on the supplied message id.
func (s *managerImpl) Translate(ctx context.Context, request any, messageID string) string {
	return s.TranslateWithMap(ctx, request, messageID, map[string]any{})
}

// TranslateWithMap performs a translation with variables based on the supplied message id.
func (s *managerImpl) TranslateWithMap(
	ctx context.Context,
	request any,
	messageID string,
	variables map[string]any,
) string {
	return s.TranslateWithMapAndCount(ctx, request, messageID, variables, 1)
}

// TranslateWithMapAndCount performs a translation with variables based on the supplied message id and can pluralize.
func (s *managerImpl) TranslateWithMapAndCount(
	ctx context.Context,
	request any,
	messageID string,
	variables map[string]any,
	count int,
) string {
	var languageSlice []string

	switch v := request.(type) {
	case *http.Request:
		languageSlice = ExtractLanguageFromHTTPRequest(v)

	case context.Context:
		languageSlice = ExtractLanguageFromGrpcRequest(v)

	case string:
		languageSlice = []string{v}

	case []string:
		languageSlice = v

	default:
		logger := util.Log(ctx).WithField("messageID", messageID).WithField("variables", variables)
		logger.Warn("TranslateWithMapAndCount -- no valid request object found, use string, []string, context or http.Request")
		return messageID
	}

	localizer := i18n.NewLocalizer(s.Bundle(), languageSlice...)

	transVersion, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      messageID,
		DefaultMessage: &i18n.Message{ID: messageID},
		TemplateData:   variables,
		PluralCount:    count,
	})

	if err != nil {
		logger := util.Log(ctx).WithError(err)
		logger.Error("TranslateWithMapAndCount -- could not perform translation")
		if transVersion == "" {
			return messageID
		}
	}

	return transVersion
}

// ExtractLanguageFromHTTPRequest collects language preferences from an HTTP
// request, form value first then the Accept-Language header.
func ExtractLanguageFromHTTPRequest(req *http.Request) []string {
	lang := req.FormValue("lang")

	acceptedLang := ExtractLanguageFromHTTPHeader(req.Header)

	var languages []string
	if lang != "" {
		languages = append(languages, lang)
	}

	return append(languages, acceptedLang...)
}

// ExtractLanguageFromHTTPHeader collects language preferences from the
// Accept-Language header.
func ExtractLanguageFromHTTPHeader(req http.Header) []string {
	acceptLanguageHeader := req.Get("Accept-Language")
	return strings.Split(acceptLanguageHeader, ",")
}

// ExtractLanguageFromGrpcRequest collects language preferences from incoming
// grpc metadata.
func ExtractLanguageFromGrpcRequest(ctx context.Context) []string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return []string{}
	}

	header, ok := md["accept-language"]
	if !ok || len(header) == 0 {
		return []string{}
	}
	acceptLangHeader := header[0]
	return strings.Split(acceptLangHeader, ",")
}
