package rabbitmq

// RoutingKeyRenewal ключ маршрутизации уведомлений о продлении.
const RoutingKeyRenewal = "renewal"

// QueueConfig очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// RenewalQueues возвращает очереди, которые объявляет планировщик продлений.
func RenewalQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.renewal", RoutingKey: RoutingKeyRenewal},
	}
}
