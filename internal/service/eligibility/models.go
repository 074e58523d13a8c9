package eligibility

// Reason машинно-читаемый итог проверки права на бронирование
type Reason string

const (
	// ReasonFreeTrial пользователь бронирует бесплатное пробное занятие
	ReasonFreeTrial Reason = "free_trial"

	// ReasonMembershipOK бронирование покрывается действующим абонементом
	ReasonMembershipOK Reason = "membership_ok"

	// ReasonAgeRestricted возраст пользователя вне диапазона занятия
	ReasonAgeRestricted Reason = "age_restricted"

	// ReasonNoMembership у пользователя нет действующего абонемента
	ReasonNoMembership Reason = "no_membership"

	// ReasonLimitExceeded месячный лимит занятий тарифа исчерпан
	ReasonLimitExceeded Reason = "limit_exceeded"
)

// Decision структурированный результат проверки
// Бизнес-отказы возвращаются значением, а не ошибкой
type Decision struct {
	Allowed bool
	Reason  Reason
	// Detail человекочитаемое объяснение для UI
	Detail string
	// Used/Limit заполняются для тарифов с месячным лимитом
	Used  int
	Limit *int
}
