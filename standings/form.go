package standings

import "github.com/Dosada05/league-system/models"

// FormWindow - сколько последних результатов хранится в форме команды.
const FormWindow = 5

// PushForm prepends code to history and keeps at most FormWindow entries.
// The input slice is never modified.
func PushForm(history []models.FormCode, code models.FormCode) []models.FormCode {
	n := len(history) + 1
	if n > FormWindow {
		n = FormWindow
	}
	form := make([]models.FormCode, 0, n)
	form = append(form, code)
	for _, c := range history {
		if len(form) == n {
			break
		}
		form = append(form, c)
	}
	return form
}
