package domain

// Market es el descriptor normalizado de un mercado de Gamma.
type Market struct {
	ConditionID string
	Question    string
	MarketSlug  string
	Title       string
	TagID       string // tag por el que se resolvió; vacío en lookups por condition_id
}

// Label devuelve el texto a mostrar del mercado: question, title o el conditionID truncado.
func (m Market) Label(maxLen int) string {
	q := m.Question
	if q == "" {
		q = m.Title
	}
	return TruncateQuestion(q, m.ConditionID, maxLen)
}

// TruncateQuestion devuelve la pregunta del mercado truncada a maxLen caracteres.
// Si la pregunta está vacía usa los primeros caracteres del conditionID como fallback.
func TruncateQuestion(question, conditionID string, maxLen int) string {
	q := question
	if q == "" {
		if len(conditionID) > 20 {
			q = conditionID[:20] + "..."
		} else {
			q = conditionID
		}
	}
	if len(q) > maxLen {
		q = q[:maxLen-3] + "..."
	}
	return q
}
