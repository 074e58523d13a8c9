package list_class_instances

import (
	"sort"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/domain"
)

// buildInstances разворачивает шаблон занятия в конкретные экземпляры
// внутри окна и присоединяет к каждому статус доступности
func buildInstances(
	c *domain.ClassTemplate,
	counts map[domain.InstanceKey]int,
	from, to, now time.Time,
) []*domain.ClassInstance {
	slots := domain.ExpandInstances(c, from, to, now)

	instances := make([]*domain.ClassInstance, 0, len(slots))
	for _, slot := range slots {
		key := domain.NewInstanceKey(c.ID, slot.Date)
		booked := counts[key]

		instances = append(instances, &domain.ClassInstance{
			Key:            key,
			ClassID:        c.ID,
			Name:           c.Name,
			Description:    c.Description,
			InstructorName: c.InstructorName,
			Recurring:      c.Recurring,
			Date:           slot.Date,
			StartTime:      slot.StartTime,
			Capacity:       c.Capacity,
			BookedCount:    booked,
			Availability:   domain.ComputeAvailability(c.Capacity, booked),
		})
	}

	return instances
}

// sortInstances упорядочивает экземпляры по дате, времени и названию,
// чтобы ответ был детерминированным для одинаковых входных данных
func sortInstances(instances []*domain.ClassInstance) {
	sort.Slice(instances, func(i, j int) bool {
		if !instances[i].Date.Equal(instances[j].Date) {
			return instances[i].Date.Before(instances[j].Date)
		}
		if instances[i].StartTime != instances[j].StartTime {
			return instances[i].StartTime.IsBefore(instances[j].StartTime)
		}
		return instances[i].Name < instances[j].Name
	})
}
