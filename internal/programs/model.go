package programs

// Program is an educational offering a lead can express interest in.
type Program struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

var fallbackPrograms = []Program{
	{
		ID:          "1",
		Name:        "Técnico laboral en auxiliar administrativo",
		Description: "Programa de formación en labores administrativas básicas",
	},
	{
		ID:          "2",
		Name:        "Técnico laboral en mercadeo y ventas",
		Description: "Formación en técnicas de ventas y estrategias de mercadeo",
	},
	{
		ID:          "3",
		Name:        "Técnico laboral en hoteleria y turismo",
		Description: "Capacitación en servicios hoteleros y turísticos",
	},
	{
		ID:          "4",
		Name:        "Técnico laboral en procesamiento y digitación de datos",
		Description: "Entrenamiento en manejo y procesamiento de información digital",
	},
	{
		ID:          "5",
		Name:        "Técnico laboral en contabilidad y finanzas",
		Description: "Formación en principios contables y financieros básicos",
	},
}
