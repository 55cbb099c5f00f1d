package service

import "github.com/bonicascribe/backend/internal/model"

// 未设置通用指令的模板创建表单时使用的兜底指令
const defaultGeneralAIPrompt = "Eres un asistente de dictado experto. Tu tarea es transcribir y estructurar la información de manera clara y precisa según las secciones provistas."

// BuiltinTemplates 预置模板定义
// 所有用户可用，首次使用时落库为用户自己的副本（保留 Key 不变）
func BuiltinTemplates() []model.Form {
	return []model.Form{preanestheticTemplate(), consultationNoteTemplate()}
}

// BuiltinTemplate 按保留 Key 返回预置模板定义
func BuiltinTemplate(key string) (model.Form, bool) {
	switch key {
	case model.TemplateKeyDefault:
		return preanestheticTemplate(), true
	case model.TemplateKeyNote:
		return consultationNoteTemplate(), true
	}
	return model.Form{}, false
}

// preanestheticTemplate 麻醉前评估模板
func preanestheticTemplate() model.Form {
	return model.Form{
		Name:            "Valoración Preanestésica",
		IsTemplate:      true,
		Key:             model.TemplateKeyDefault,
		GeneralAIPrompt: "Eres un asistente médico experto en valoraciones preanestésicas. Tu tono debe ser formal y clínico. Extrae la información relevante del audio para cada sección, siguiendo las indicaciones específicas si se proporcionan.",
		Sections: []model.Section{
			{
				SectionKey: "hospitalInfo",
				Title:      "Encabezado de la Institución y Servicio",
				Content:    "Nombre del Hospital: \nServicio Médico: \nValorado en: \nCama: \nFecha: ",
				AIPrompt:   "Extraer la información del encabezado del hospital. Sé conciso y extrae solo los datos solicitados.",
			},
			{
				SectionKey: "datosPaciente",
				Title:      "Datos del Paciente",
				Content:    "Nombre: \nNSS: \nEdad: \nSexo: \nFecha de Ingreso: \nFecha de nacimiento:\nDiagnóstico: \nProcedimiento: ",
				AIPrompt:   "Extrae los datos demográficos y de diagnóstico del paciente de manera estructurada.",
			},
			{
				SectionKey: "antecedentesHeredofamiliares",
				Title:      "Antecedentes Heredofamiliares",
				Content: "Madre:\n  Edad: \n  Lugar de origen y residencia: \n  Escolaridad: \n  Estado civil: \n  Ocupación: \n" +
					"  Enfermedades crónico-degenerativas: \n  Hemotipo: \n  Toxicomanías: \n  Medicamentos: \n" +
					"Padre:\n  Edad: \n  Lugar de origen y residencia: \n  Escolaridad: \n  Estado civil: \n  Ocupación: \n" +
					"  Enfermedades crónico-degenerativas: \n  Hemotipo: \n  Toxicomanías: \n  Medicamentos: \n" +
					"Hermanos: \nRama Materna: \nRama Paterna: \nConsanguinidad: ",
				AIPrompt: "Detalla los antecedentes médicos de los familiares directos del paciente.",
			},
			{
				SectionKey: "antecedentesPerinatales",
				Title:      "Antecedentes Perinatales",
				Content:    "Prenatales:\n\nNatales:\n\nDesarrollo Psicomotor: \nTamiz Neonatal:\n",
				AIPrompt:   "Describe los eventos médicos ocurridos antes, durante y después del nacimiento.",
			},
			{
				SectionKey: "antecedentesPersonalesNoPatologicos",
				Title:      "Antecedentes Personales No Patológicos",
				Content:    "Vivienda: \nHigiene: \nAlimentación: \nInmunizaciones: \nCuidador Principal: \nHemotipo: \nEscolaridad: ",
				AIPrompt:   "Resume el estilo de vida, entorno e historial de vacunación del paciente.",
			},
			{
				SectionKey: "antecedentesPersonalesPatologicos",
				Title:      "Antecedentes Personales Patológicos",
				Content: "Enfermedades crónico-degenerativas: \nAlergias: \nAlergia al látex: \nConvulsiones: \nAsma/broncoespasmos: \n" +
					"Enfermedades exantemáticas: \nQuirúrgicos: \nTraumatismos: \nIntoxicaciones: \nTransfusiones: \n" +
					"Hospitalizaciones previas: \nIVRS (Infecciones de Vías Respiratorias Superiores): \nMedicamentos actuales: ",
				AIPrompt: "Enumera todas las condiciones médicas previas, cirugías, alergias y medicamentos actuales del paciente.",
			},
			{
				SectionKey: "padecimientoActual",
				Title:      "Padecimiento Actual",
				Content:    "Descripción del padecimiento: ",
				AIPrompt:   "Describe en detalle la razón principal de la consulta o ingreso hospitalario actual.",
			},
			{
				SectionKey: "somatometria",
				Title:      "Somatometría",
				Content: "Talla: \nPeso real: \nTensión arterial: \nFrecuencia cardiaca: \nFrecuencia respiratoria: \n" +
					"Temperatura: \nSaturación O2: \nSuperficie corporal: ",
				AIPrompt: "Registra los signos vitales y mediciones corporales del paciente.",
			},
			{
				SectionKey: "exploracionFisica",
				Title:      "Exploración Física",
				Content: "Descripción general del paciente: \nPiel y tegumentos: \nCráneo: \nBoca/faringe: \nVía aérea: \nCuello: \n" +
					"Tórax: \nAbdomen: \nGenitales: \nExtremidades: \nColumna vertebral: \nAccesos vasculares: ",
				AIPrompt: "Realiza un examen físico detallado por sistemas, desde la cabeza hasta las extremidades.",
			},
			{
				SectionKey: "laboratoriosEstudios",
				Title:      "Laboratorios y Estudios",
				Content:    "Biometría Hemática: \nTiempos de Coagulación: \nOtros valores hematológicos: \nEstudios de Gabinete: ",
				AIPrompt:   "Reporta los resultados de los análisis de sangre, pruebas de coagulación y estudios de imagen relevantes.",
			},
			{
				SectionKey: "valoracionOtrosServicios",
				Title:      "Valoración por Otros Servicios",
				Content:    "Resumen de las valoraciones de otras especialidades: ",
				AIPrompt:   "Resume los hallazgos y recomendaciones de otros especialistas que han evaluado al paciente.",
			},
			{
				SectionKey: "planComentariosAdicionales",
				Title:      "Plan y Comentarios Adicionales",
				Content: "Espacio Libre para Información Adicional: \nManejo Médico de su Servicio: \nRiesgo Anestésico Quirúrgico:\n" +
					"  ASA: \n  RAQ: \n  CEPOD: \n  IPID: \n  NARCO SS: \nVolumen Sanguíneo Circulante: \nSangrado Permisible: ",
				AIPrompt: "Detalla el plan de manejo médico, clasifica el riesgo anestésico y calcula los volúmenes sanguíneos.",
			},
			{
				SectionKey: "planAnestesico",
				Title:      "Plan Anestésico",
				Content:    "Plan Anestésico: ",
				AIPrompt:   "Describe la estrategia anestésica completa, incluyendo técnicas, fármacos y monitoreo.",
			},
			{
				SectionKey: "indicacionesAnestesicas",
				Title:      "Indicaciones Anestésicas",
				Content:    "Indicaciones Anestésicas: ",
				AIPrompt:   "Enumera las órdenes médicas específicas para el periodo perioperatorio.",
			},
			{
				SectionKey: "comentarioBibliografico",
				Title:      "Comentario Bibliográfico",
				Content:    "Comentario Bibliográfico: ",
				AIPrompt:   "Añade cualquier referencia bibliográfica o comentario académico relevante para el caso.",
			},
		},
	}
}

// consultationNoteTemplate 问诊笔记模板，单分区逐字转写
func consultationNoteTemplate() model.Form {
	return model.Form{
		Name:            "Nota de Consulta",
		IsTemplate:      true,
		Key:             model.TemplateKeyNote,
		GeneralAIPrompt: "Eres un asistente de dictado para consultas. Transcribe la conversación de la manera más fiel posible, estructurando la información según las secciones provistas.",
		Sections: []model.Section{
			{
				SectionKey: "consulta",
				Title:      "Consulta",
				Content:    "",
				AIPrompt:   "Realizar una transcripción lo más fiel posible de la interacción durante la consulta. Enfocarse en capturar el diálogo y los detalles médicos relevantes de manera textual.",
			},
		},
	}
}
