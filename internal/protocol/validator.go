package protocol

// Validator - интерфейс, который могут реализовать DTO.
// Диспетчер прогоняет его автоматически после декодирования payload.
type Validator interface {
	Validate() error
}
