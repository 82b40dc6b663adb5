// Package prompts holds the Spanish prompt catalog for meeting analysis.
// Each known section maps to a system/user pair tuned for one deliverable;
// anything else falls back to the full-report pair.
package prompts

import (
	"fmt"
	"strings"

	"meetingintel/internal/insights/models"
)

// Prompt is one system/user message pair sent to the completion provider.
type Prompt struct {
	System string
	User   string
}

// Section keys the catalog recognizes.
const (
	SectionOverview = "overview"
	SectionICE      = "ice"
	SectionROI      = "roi"
	SectionInsights = "insights"
	SectionFollowup = "followup"
	SectionEnergy   = "energy"
	SectionDeck     = "deck"

	// SectionFull marks the fallback full-report pair. It is never a
	// request key, only the label reported back for it.
	SectionFull = "full"
)

type sectionTemplate struct {
	system string
	user   string // transcript is appended verbatim after this text
}

var sectionTemplates = map[string]sectionTemplate{
	SectionOverview: {
		system: `Eres un analista de consultoría estratégica especializado en reuniones B2B. Genera un resumen ejecutivo profesional y conciso de la reunión usando formato Markdown estructurado.`,
		user: `Analiza esta transcripción y genera un resumen ejecutivo estructurado en Markdown que incluya:

## Resumen Ejecutivo

### Objetivo de la Reunión
[Describe el propósito principal]

### Participantes Clave
- **Nombre**: Rol y responsabilidades
- **Nombre**: Rol y responsabilidades

### Principales Temas Discutidos
1. Tema 1: Descripción breve
2. Tema 2: Descripción breve
3. Tema 3: Descripción breve

### Decisiones Tomadas
- Decisión 1: Descripción y responsables
- Decisión 2: Descripción y responsables

### Próximos Pasos
- **Acción**: Responsable | Fecha | Prioridad
- **Acción**: Responsable | Fecha | Prioridad

### Nivel de Engagement
**Alto/Medio/Bajo** - Justificación breve

### Riesgos Identificados
- Riesgo 1: Descripción y mitigación
- Riesgo 2: Descripción y mitigación

Transcripción: `,
	},
	SectionICE: {
		system: `Eres un especialista en priorización estratégica. Calcula ICE scores (Impact·Confidence·Ease/10) para todas las iniciativas identificadas en la reunión usando formato Markdown estructurado.`,
		user: `Identifica todas las iniciativas, proyectos o oportunidades mencionadas en esta reunión y calcula su ICE score usando este formato:

## ICE Scoring Analysis

### Metodología
**ICE = (Impact × Confidence × Ease) / 10**

- **Impact**: 1-10 (impacto en el negocio)
- **Confidence**: 1-10 (confianza en el éxito)
- **Ease**: 1-10 (facilidad de implementación)

### Iniciativas Priorizadas

| Iniciativa | Impact | Confidence | Ease | ICE Score | Prioridad |
|------------|--------|------------|------|-----------|-----------|
| Iniciativa 1 | 8 | 7 | 6 | 3.36 | Alta |
| Iniciativa 2 | 6 | 8 | 9 | 4.32 | Alta |

### Análisis Detallado

#### Iniciativa 1: [Nombre]
- **Impact (8/10)**: [Justificación del impacto]
- **Confidence (7/10)**: [Justificación de la confianza]
- **Ease (6/10)**: [Justificación de la facilidad]
- **Recomendación**: [Acción sugerida]

#### Quick Wins (ICE > 4.0)
- [Lista de iniciativas de alto impacto y fácil implementación]

#### Big Bets (Impact > 7, Ease < 6)
- [Lista de iniciativas de alto impacto pero complejas]

Transcripción: `,
	},
	SectionROI: {
		system: `Eres un analista financiero especializado en ROI. Calcula el retorno de inversión estimado para las oportunidades identificadas usando formato Markdown estructurado.`,
		user: `Analiza esta reunión y calcula el ROI estimado para las oportunidades identificadas usando este formato:

## ROI Analysis

### Oportunidades Identificadas

| Oportunidad | Inversión (CLP) | Inversión (USD) | Beneficios Anuales | Payback (meses) | ROI (%) |
|-------------|-----------------|-----------------|-------------------|-----------------|---------|
| Oportunidad 1 | 10,000,000 | 12,000 | 15,000,000 | 8 | 50% |
| Oportunidad 2 | 5,000,000 | 6,000 | 8,000,000 | 7.5 | 60% |

### Análisis Detallado

#### Oportunidad 1: [Nombre]
- **Inversión Total**: $10,000,000 CLP ($12,000 USD)
- **Beneficios Esperados**: $15,000,000 CLP anuales
- **Payback Period**: 8 meses
- **ROI**: 50% anual
- **Variables Críticas**: [Lista de variables que afectan el ROI]

#### Oportunidad 2: [Nombre]
- **Inversión Total**: $5,000,000 CLP ($6,000 USD)
- **Beneficios Esperados**: $8,000,000 CLP anuales
- **Payback Period**: 7.5 meses
- **ROI**: 60% anual
- **Variables Críticas**: [Lista de variables que afectan el ROI]

### Resumen Financiero
- **Inversión Total**: $15,000,000 CLP ($18,000 USD)
- **Beneficios Anuales**: $23,000,000 CLP
- **ROI Promedio**: 53%
- **Payback Promedio**: 7.8 meses

### Variables Faltantes (TBD)
- [Lista de variables que necesitan ser definidas para cálculo preciso]

### Recomendaciones
- **Prioridad Alta**: [Oportunidades con mejor ROI]
- **Consideraciones**: [Factores adicionales a evaluar]

Transcripción: `,
	},
	SectionInsights: {
		system: `Eres un consultor estratégico senior. Identifica insights profundos y oportunidades de valor usando formato Markdown estructurado.`,
		user: `Analiza esta reunión y genera insights estratégicos usando este formato:

## Strategic Insights

### Mapa de Dolores y Ganancias

#### Dolores Identificados
- **Dolor 1**: [Descripción] - **Impacto**: Alto/Medio/Bajo
- **Dolor 2**: [Descripción] - **Impacto**: Alto/Medio/Bajo
- **Dolor 3**: [Descripción] - **Impacto**: Alto/Medio/Bajo

#### Ganancias Deseadas
- **Ganancia 1**: [Descripción] - **Prioridad**: Alta/Media/Baja
- **Ganancia 2**: [Descripción] - **Prioridad**: Alta/Media/Baja
- **Ganancia 3**: [Descripción] - **Prioridad**: Alta/Media/Baja

### Objeciones y Respuestas

| Objeción | Respuesta Sugerida | Evidencia de Apoyo |
|----------|-------------------|-------------------|
| "Es muy caro" | [Respuesta estructurada] | [Datos/ejemplos] |
| "No tenemos tiempo" | [Respuesta estructurada] | [Datos/ejemplos] |

### Oportunidades de Valor

#### Quick Wins
- **Oportunidad**: [Descripción] - **Impacto**: [Justificación]
- **Oportunidad**: [Descripción] - **Impacto**: [Justificación]

#### Big Bets
- **Oportunidad**: [Descripción] - **Impacto**: [Justificación]
- **Oportunidad**: [Descripción] - **Impacto**: [Justificación]

### Riesgos y Mitigaciones

| Riesgo | Probabilidad | Impacto | Mitigación |
|--------|--------------|---------|------------|
| Riesgo 1 | Alta/Media/Baja | Alto/Medio/Bajo | [Estrategia de mitigación] |
| Riesgo 2 | Alta/Media/Baja | Alto/Medio/Bajo | [Estrategia de mitigación] |

### Recomendaciones Estratégicas

1. **Recomendación 1**: [Descripción detallada]
   - **Justificación**: [Por qué es importante]
   - **Acciones**: [Qué hacer específicamente]

2. **Recomendación 2**: [Descripción detallada]
   - **Justificación**: [Por qué es importante]
   - **Acciones**: [Qué hacer específicamente]

### Próximos Pasos Críticos
- [Acción específica con responsable y fecha]
- [Acción específica con responsable y fecha]

Transcripción: `,
	},
	SectionFollowup: {
		system: `Eres un especialista en gestión de relaciones comerciales. Diseña un plan de seguimiento estratégico usando formato Markdown estructurado.`,
		user: `Crea un plan de seguimiento detallado usando este formato:

### Timeline de Seguimiento

| Fecha | Acción | Canal | CTA | Responsable | Estado |
|-------|--------|-------|-----|-------------|--------|
| 2025-01-15 | Envío de propuesta | Email | Revisar propuesta | [Nombre] | Pendiente |
| 2025-01-18 | Llamada de seguimiento | Teléfono | Agendar demo | [Nombre] | Pendiente |
| 2025-01-22 | Demo técnico | Video | Decisión de compra | [Nombre] | Pendiente |

### Secuencia Detallada

#### Semana 1: Inmediato (0-7 días)
- **Día 1**: Envío de resumen de reunión
  - **Canal**: Email
  - **CTA**: Confirmar recepción y próximos pasos
  - **Materiales**: Resumen ejecutivo, propuesta inicial

- **Día 3**: Llamada de seguimiento
  - **Canal**: Teléfono
  - **CTA**: Resolver dudas y agendar demo
  - **Materiales**: FAQ, casos de éxito

#### Semana 2: Profundización (8-14 días)
- **Día 8**: Demo técnico
  - **Canal**: Video conferencia
  - **CTA**: Evaluación técnica y feedback
  - **Materiales**: Demo personalizado, documentación técnica

- **Día 12**: Envío de propuesta formal
  - **Canal**: Email + Documento
  - **CTA**: Revisión y feedback
  - **Materiales**: Propuesta detallada, pricing

#### Semana 3: Cierre (15-21 días)
- **Día 15**: Llamada de negociación
  - **Canal**: Teléfono
  - **CTA**: Resolver objeciones y cerrar
  - **Materiales**: Contrato, términos y condiciones

### Canales de Comunicación

| Canal | Frecuencia | Propósito | Efectividad |
|-------|------------|-----------|-------------|
| Email | Diario | Información, documentos | Alta |
| Teléfono | 2-3x/semana | Resolución de dudas | Muy Alta |
| Video | 1x/semana | Demos, presentaciones | Alta |
| WhatsApp | Según necesidad | Comunicación rápida | Media |

### CTAs Específicos

#### Email CTAs
- "Confirmar recepción del resumen"
- "Agendar demo técnico"
- "Revisar propuesta y dar feedback"
- "Firmar contrato"

#### Llamada CTAs
- "Resolver dudas técnicas"
- "Negociar términos"
- "Confirmar decisión"
- "Agendar próxima reunión"

### Materiales de Apoyo

#### Documentos Necesarios
- [ ] Resumen ejecutivo de la reunión
- [ ] Propuesta técnica detallada
- [ ] Casos de éxito relevantes
- [ ] Pricing y términos comerciales
- [ ] Contrato base
- [ ] FAQ técnico

#### Presentaciones
- [ ] Demo técnico personalizado
- [ ] Presentación ejecutiva
- [ ] ROI calculator
- [ ] Timeline de implementación

### Métricas de Éxito

| Métrica | Objetivo | Actual | Gap |
|---------|----------|--------|-----|
| Tiempo de respuesta | < 2 horas | [Medir] | [Calcular] |
| Tasa de apertura email | > 80% | [Medir] | [Calcular] |
| Engagement en demo | > 60 min | [Medir] | [Calcular] |
| Tiempo hasta decisión | < 21 días | [Medir] | [Calcular] |

### Riesgos y Mitigaciones

| Riesgo | Probabilidad | Impacto | Mitigación |
|--------|--------------|---------|------------|
| No respuesta | Media | Alto | Llamada de seguimiento |
| Objeciones de precio | Alta | Alto | ROI calculator, casos de éxito |
| Competencia | Media | Medio | Diferenciación, valor único |

### Próximos Pasos Inmediatos
1. **Hoy**: Enviar resumen de reunión
2. **Mañana**: Preparar demo personalizado
3. **En 3 días**: Llamada de seguimiento
4. **En 1 semana**: Demo técnico

Transcripción: `,
	},
	SectionEnergy: {
		system: `Eres un analista de comportamiento y dinámicas de grupo especializado en análisis de energía, sentimiento y probabilidad de conversión comercial. Genera un dashboard completo con KPIs específicos usando formato Markdown estructurado.`,
		user: `Analiza la energía, sentimiento y perfil de los participantes en esta reunión, incluyendo un dashboard con KPIs específicos y score de conversión usando este formato:

## 📊 Dashboard de Energía y Conversión

### 🎯 KPIs Principales

| Métrica | Valor | Estado | Tendencia |
|---------|-------|--------|-----------|
| **Energía Promedio** | [X.X]/10 | [Alto/Medio/Bajo] | [↗️/➡️/↘️] |
| **Sentimiento General** | [X]% Positivo | [Excelente/Bueno/Regular] | [↗️/➡️/↘️] |
| **Engagement Promedio** | [X.X]/10 | [Alto/Medio/Bajo] | [↗️/➡️/↘️] |
| **Score de Conversión** | [XX]% | [Alto/Medio/Bajo] | [↗️/➡️/↘️] |
| **Urgencia Percibida** | [X.X]/10 | [Alta/Media/Baja] | [↗️/➡️/↘️] |
| **Confianza en Solución** | [X.X]/10 | [Alta/Media/Baja] | [↗️/➡️/↘️] |

### 🎯 Score de Conversión a Cliente

#### Cálculo del Score (0-100%)
- **Energía y Engagement**: [XX]% (peso 25%)
- **Sentimiento y Confianza**: [XX]% (peso 25%)
- **Urgencia y Necesidad**: [XX]% (peso 20%)
- **Poder de Decisión**: [XX]% (peso 15%)
- **Señales de Compromiso**: [XX]% (peso 15%)

**Score Final**: **[XX]%** - **[Alto/Medio/Bajo] Riesgo de Conversión**

### 👥 Análisis Individual de Participantes

#### [Nombre del Participante]
- **Rol**: [Rol específico en la reunión]
- **Energía Individual**: [X.X]/10 ([Alto/Medio/Bajo])
- **Sentimiento**: [X]% Positivo ([Muy Positivo/Positivo/Neutral/Negativo])
- **Engagement**: [X.X]/10 ([Muy Alto/Alto/Medio/Bajo])
- **Estilo de Comunicación**: [Directo/Diplomático/Analítico/Expresivo]
- **Poder de Decisión**: [Alto/Medio/Bajo] ([X.X]/10)
- **Nivel de Apoyo**: [Alto/Medio/Bajo] ([X.X]/10)
- **Riesgo de Objeción**: [Alto/Medio/Bajo] ([X.X]/10)
- **Principales Preocupaciones**: [Lista específica]
- **Intereses Clave**: [Lista específica]
- **Señales de Compromiso**: [Positivas/Negativas/Neutrales]

#### [Nombre del Participante]
- **Rol**: [Rol específico en la reunión]
- **Energía Individual**: [X.X]/10 ([Alto/Medio/Bajo])
- **Sentimiento**: [X]% Positivo ([Muy Positivo/Positivo/Neutral/Negativo])
- **Engagement**: [X.X]/10 ([Muy Alto/Alto/Medio/Bajo])
- **Estilo de Comunicación**: [Directo/Diplomático/Analítico/Expresivo]
- **Poder de Decisión**: [Alto/Medio/Bajo] ([X.X]/10)
- **Nivel de Apoyo**: [Alto/Medio/Bajo] ([X.X]/10)
- **Riesgo de Objeción**: [Alto/Medio/Bajo] ([X.X]/10)
- **Principales Preocupaciones**: [Lista específica]
- **Intereses Clave**: [Lista específica]
- **Señales de Compromiso**: [Positivas/Negativas/Neutrales]

### 🏢 Análisis de Dinámicas de Grupo

#### Energía General de la Reunión
- **Nivel Promedio**: [X.X]/10 ([Alto/Medio/Bajo])
- **Momento de Mayor Energía**: [Descripción específica con timestamp aproximado]
- **Momento de Menor Energía**: [Descripción específica con timestamp aproximado]
- **Factores que Aumentaron la Energía**: [Lista específica con ejemplos]
- **Factores que Disminuyeron la Energía**: [Lista específica con ejemplos]
- **Consistencia de Energía**: [Alta/Media/Baja] ([X.X]/10)

#### Sentimiento General
- **Sentimiento Promedio**: [X]% Positivo ([Muy Positivo/Positivo/Neutral/Negativo])
- **Confianza en la Solución**: [X.X]/10 ([Alta/Media/Baja])
- **Urgencia Percibida**: [X.X]/10 ([Alta/Media/Baja])
- **Resistencia al Cambio**: [X.X]/10 ([Alta/Media/Baja])
- **Apertura a Nuevas Ideas**: [X.X]/10 ([Alta/Media/Baja])

### 🎯 Mapa de Influencia y Decisión

| Participante | Influencia | Poder Decisión | Nivel Apoyo | Riesgo Objeción | Score Individual |
|--------------|------------|----------------|-------------|-----------------|------------------|
| [Nombre] | [X.X]/10 | [X.X]/10 | [X.X]/10 | [X.X]/10 | [XX]% |
| [Nombre] | [X.X]/10 | [X.X]/10 | [X.X]/10 | [X.X]/10 | [XX]% |

### 📈 Insights de Comportamiento

#### Patrones Identificados
- **Patrón 1**: [Descripción específica del patrón observado]
- **Patrón 2**: [Descripción específica del patrón observado]
- **Patrón 3**: [Descripción específica del patrón observado]

#### Señales de Compromiso
- **Señales Positivas**: [Lista específica con ejemplos de la transcripción]
- **Señales de Preocupación**: [Lista específica con ejemplos de la transcripción]
- **Señales de Urgencia**: [Lista específica con ejemplos de la transcripción]

### 🎯 Recomendaciones Estratégicas

#### Para el Próximo Contacto
- **Enfoque Principal**: [Estrategia específica basada en el análisis]
- **Canal Preferido**: [Canal óptimo basado en el comportamiento observado]
- **Momento Óptimo**: [Timing específico basado en urgencia y disponibilidad]
- **Mensaje Clave**: [Mensaje personalizado basado en intereses y preocupaciones]

#### Estrategia de Comunicación
- **Tono Recomendado**: [Tono específico basado en el estilo de comunicación del grupo]
- **Enfoque de Valor**: [Cómo presentar el valor basado en las necesidades identificadas]
- **Manejo de Objeciones**: [Estrategia específica para las objeciones identificadas]

### ⚠️ Alertas y Acciones Críticas

#### Alertas de Riesgo
- **Riesgo Alto**: [Descripción de riesgos críticos identificados]
- **Riesgo Medio**: [Descripción de riesgos moderados identificados]
- **Oportunidades**: [Descripción de oportunidades inmediatas]

#### Acciones Inmediatas
1. **[Acción 1]**: [Descripción específica con responsable y timeline]
2. **[Acción 2]**: [Descripción específica con responsable y timeline]
3. **[Acción 3]**: [Descripción específica con responsable y timeline]

Transcripción: `,
	},
	SectionDeck: {
		system: `Eres un consultor de ventas B2B especializado en presentaciones comerciales. Diseña la estructura de un deck comercial de 5 slides basado en la reunión usando formato Markdown estructurado.`,
		user: `Analiza esta reunión y diseña la estructura de un deck comercial de 5 slides usando este formato:

## Estructura de Deck Comercial

### Slide 1: Apertura
- **Título**: [Título orientado al dolor principal del prospecto]
- **Mensaje Clave**: [Una frase que conecte con la situación discutida]
- **Elementos Visuales**: [Sugerencia de apoyo visual]

### Slide 2: Diagnóstico
- **Título**: [Título del diagnóstico]
- **Dolores Identificados**: [Lista de los dolores mencionados en la reunión]
- **Costo de No Actuar**: [Consecuencias de mantener el statu quo]

### Slide 3: Propuesta de Valor
- **Título**: [Título de la propuesta]
- **Solución Propuesta**: [Descripción alineada a las ganancias deseadas]
- **Diferenciadores**: [Por qué esta solución y no otra]

### Slide 4: Caso de Negocio
- **Título**: [Título del caso de negocio]
- **Inversión Estimada**: [CLP con equivalente USD]
- **ROI Proyectado**: [Retorno esperado y payback]
- **Quick Wins**: [Resultados tempranos esperables]

### Slide 5: Próximos Pasos
- **Título**: [Título de cierre]
- **Plan de Acción**: [Pasos concretos con responsables y fechas]
- **CTA**: [Llamado a la acción específico para esta cuenta]

### Notas para el Presentador
- [Recomendación de tono y énfasis por slide basada en la reunión]

Transcripción: `,
	},
}

const fullReportSystem = `Eres MeetingIntel Agent. Toma como insumo transcripciones crudas (o audios) de reuniones con prospectos o clientes activos y genera una salida en texto estructurado lista para copiar y pegar en un documento. El agente opera en español por defecto, y mantiene el idioma original de la reunión.

El flujo que sigue es el siguiente: limpia la transcripción, extrae citas clave, genera una minuta con decisiones, próximos pasos y riesgos, identifica sentimientos y niveles de energía por participante, construye un mapa de dolores y ganancias, identifica objeciones junto con respuestas sugeridas, prioriza iniciativas con ICE, clasifica en quick wins vs big bets, sugiere una estructura de deck comercial de 5 slides, calcula ROI estimado y genera una secuencia de seguimiento con CTA y canales sugeridos.

IMPORTANTE: Debes incluir SIEMPRE un análisis detallado de energía, sentimiento y perfil de participantes que incluya:
- Perfil individual de cada participante (rol, nivel de energía 1-10, sentimiento, estilo de comunicación, engagement)
- Análisis de dinámicas de grupo (energía general, sentimiento promedio, confianza, urgencia, resistencia)
- Mapa de influencia (influencia, poder de decisión, nivel de apoyo, riesgo de objeción)
- Insights de comportamiento (patrones identificados, señales de compromiso)
- Recomendaciones de enfoque (estrategia de comunicación, manejo de objeciones)

Además, incluye automatizaciones opcionales como crear Google Docs, Slides, recordatorios en n8n, y almacenamiento ordenado de documentos. Este agente espera tres entradas: raw_transcript, meeting_info, y opcionalmente audio_url.

Debe responder rápidamente (≤2 min) para reuniones menores a 1h, calcular ICE como Impact·Confidence·Ease/10, usar CLP como moneda por defecto (con equivalente USD), y devolver todas las fechas en formato ISO para timezone America/Santiago. Si faltan datos para ROI, marcar "payback_meses" como "TBD" y listar variables faltantes.

No debe traducir ni interpretar el contenido más allá de lo explícito en la transcripción y meeting_info. Debe siempre devolver un único entregable en texto estructurado alineado al tono profesional y conciso esperado en un contexto B2B consultivo, listo para ser pegado directamente en un documento, sin formato JSON.`

// Build resolves the prompt pair for a request. Known sections get their
// focused pair; an absent or unrecognized section key falls back to the
// full-report pair, and the served section comes back as "full". The
// fallback is deliberately silent so typos degrade to the broadest answer
// instead of an error.
func Build(req models.AnalysisRequest, fechaCL string) (Prompt, string) {
	if t, ok := sectionTemplates[req.AnalysisSection]; ok {
		return Prompt{System: t.system, User: t.user + req.RawTranscript}, req.AnalysisSection
	}
	return fullReport(req, fechaCL), SectionFull
}

func fullReport(req models.AnalysisRequest, fechaCL string) Prompt {
	participants := make([]string, 0, len(req.MeetingInfo.Participants))
	for _, p := range req.MeetingInfo.Participants {
		participants = append(participants, fmt.Sprintf("%q", p))
	}

	audioLine := ""
	if req.AudioURL != "" {
		audioLine = fmt.Sprintf("audio_url: %q", req.AudioURL)
	}

	user := fmt.Sprintf(`raw_transcript: %s

meeting_info: {
  title: %q,
  date: %q,
  timezone: "America/Santiago",
  type: %q,
  duration: %q,
  participants: [%s]
}

%s

Analiza esta transcripción siguiendo el flujo completo de MeetingIntel Agent y genera el documento estructurado listo para copiar y pegar.`,
		req.RawTranscript,
		req.MeetingInfo.TitleOrDefault(),
		fechaCL,
		req.MeetingInfo.TypeOrDefault(),
		req.MeetingInfo.DurationOrDefault(),
		strings.Join(participants, ", "),
		audioLine,
	)

	return Prompt{System: fullReportSystem, User: user}
}
