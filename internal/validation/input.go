package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/venture-backend/internal/models"
)

// Константы валидации
const (
	MinIdeaTitleLength       = 3
	MaxIdeaTitleLength       = 200
	MinIdeaDescriptionLength = 10
	MaxIdeaDescriptionLength = 10000
	MinProblemSolutionLength = 10
	MinMarketModelLength     = 5
	MinAccessMessageLength   = 10
	MaxAccessMessageLength   = 2000
	MinNameLength            = 2
	MaxNameLength            = 100
	MinPasswordLength        = 6
	MaxPasswordLength        = 72 // ограничение bcrypt
	MinEquity                = 0.0
	MaxEquity                = 100.0
	MaxFunding               = 1000000000.0 // 1 миллиард
	MaxMilestonesCount       = 20
	MaxTermSheetNotesLength  = 5000
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidatePassword проверяет пароль.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("пароль обязателен")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("пароль должен быть не более %d символов", MaxPasswordLength)
	}
	return nil
}

// ValidateName проверяет имя пользователя.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("имя обязательно")
	}
	return ValidateLength("имя", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateRole проверяет роль пользователя.
func ValidateRole(role string) error {
	if _, ok := models.ValidRoles[role]; !ok {
		return fmt.Errorf("роль должна быть founder или investor")
	}
	return nil
}

// ValidateIdeaTitle проверяет заголовок идеи.
func ValidateIdeaTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок идеи обязателен")
	}

	title = strings.TrimSpace(title)

	return ValidateLength("заголовок идеи", title, MinIdeaTitleLength, MaxIdeaTitleLength)
}

// ValidateNonEmptyCategory проверяет категорию идеи.
func ValidateNonEmptyCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("категория обязательна")
	}
	return nil
}

// ValidateIdeaDescription проверяет описание идеи.
func ValidateIdeaDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание идеи обязательно")
	}

	description = strings.TrimSpace(description)

	return ValidateLength("описание идеи", description, MinIdeaDescriptionLength, MaxIdeaDescriptionLength)
}

// ValidateProblemStatement проверяет формулировку проблемы.
func ValidateProblemStatement(value string) error {
	if value == "" {
		return fmt.Errorf("формулировка проблемы обязательна")
	}
	return ValidateLength("формулировка проблемы", strings.TrimSpace(value), MinProblemSolutionLength, 0)
}

// ValidateSolution проверяет описание решения.
func ValidateSolution(value string) error {
	if value == "" {
		return fmt.Errorf("описание решения обязательно")
	}
	return ValidateLength("описание решения", strings.TrimSpace(value), MinProblemSolutionLength, 0)
}

// ValidateTargetMarket проверяет описание целевого рынка.
func ValidateTargetMarket(value string) error {
	if value == "" {
		return fmt.Errorf("целевой рынок обязателен")
	}
	return ValidateLength("целевой рынок", strings.TrimSpace(value), MinMarketModelLength, 0)
}

// ValidateBusinessModel проверяет описание бизнес-модели.
func ValidateBusinessModel(value string) error {
	if value == "" {
		return fmt.Errorf("бизнес-модель обязательна")
	}
	return ValidateLength("бизнес-модель", strings.TrimSpace(value), MinMarketModelLength, 0)
}

// ValidateFunding проверяет сумму финансирования.
func ValidateFunding(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("сумма финансирования должна быть положительной")
	}
	if amount > MaxFunding {
		return fmt.Errorf("сумма финансирования не может превышать %.0f", MaxFunding)
	}
	return nil
}

// ValidateEquity проверяет долю в процентах.
func ValidateEquity(equity float64) error {
	if equity < MinEquity || equity > MaxEquity {
		return fmt.Errorf("доля должна быть от 0 до 100 процентов")
	}
	return nil
}

// ValidateAccessMessage проверяет сообщение запроса доступа.
func ValidateAccessMessage(message string) error {
	if message == "" {
		return fmt.Errorf("сообщение запроса обязательно")
	}

	message = strings.TrimSpace(message)

	return ValidateLength("сообщение запроса", message, MinAccessMessageLength, MaxAccessMessageLength)
}

// ValidateMilestones проверяет список траншей предложения.
func ValidateMilestones(milestones models.Milestones) error {
	if len(milestones) > MaxMilestonesCount {
		return fmt.Errorf("количество траншей не может превышать %d", MaxMilestonesCount)
	}

	for i, m := range milestones {
		if strings.TrimSpace(m.Description) == "" {
			return fmt.Errorf("транш %d: описание обязательно", i+1)
		}
		if m.Amount <= 0 {
			return fmt.Errorf("транш %d: сумма должна быть положительной", i+1)
		}
	}

	return nil
}

// ValidateTermSheetNotes проверяет примечания к условиям сделки.
func ValidateTermSheetNotes(notes *string) error {
	if notes != nil && *notes != "" {
		return ValidateLength("примечания к условиям", strings.TrimSpace(*notes), 0, MaxTermSheetNotesLength)
	}
	return nil
}
