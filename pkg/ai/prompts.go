package ai

// Per-document extraction caps. The prompt asks the model to stay
// within them and cleanRecord enforces them on the way in.
const (
	MaxKeywordsPerDoc     = 8
	MaxMethodsPerDoc      = 5
	MaxFieldsPerDoc       = 4
	MaxDatasetsPerDoc     = 3
	MaxApplicationsPerDoc = 3
)

// EntityExtractionPrompt asks for the five entity categories of one
// academic document as a bare JSON object. The prompt is bilingual
// because the corpus mixes Chinese and English papers and extraction
// quality drops sharply when the instruction language does not match
// the document language.
const EntityExtractionPrompt = `你是一个学术文献分析专家。请从以下学术文本中全面提取核心实体，构建丰富的知识网络。
You are an academic literature analysis expert. Extract the core entities from the text below.

# Text
%s

# Extraction Requirements
1. **Keywords** (关键词): up to %d core concepts, terms or research topics.
2. **Methods** (方法/技术): up to %d techniques such as algorithms, frameworks, models or tools (e.g. Transformer, BERT, RAG, 知识图谱, 向量检索).
3. **Fields** (研究领域): up to %d research areas (e.g. 自然语言处理, machine learning, information retrieval).
4. **Datasets** (数据集): up to %d dataset names; use an empty array if none are mentioned.
5. **Applications** (应用场景): up to %d application scenarios (e.g. 问答系统, document retrieval, 智能客服).

# Output Format
Respond with a single JSON object and nothing else:
{
  "keywords": ["...", "..."],
  "methods": ["...", "..."],
  "fields": ["...", "..."],
  "datasets": ["..."],
  "applications": ["...", "..."]
}

# Rules
- Prefer specific, discriminative entities over broad ones.
- Fill each category as close to its limit as the text supports.
- The output must be valid JSON.`

// QueryAnswerPrompt frames retrieved chunks as context for answering a
// user question, bilingual for the same reason as extraction.
const QueryAnswerPrompt = `你是一个学术文献问答助手。请仅根据提供的上下文回答问题；如果上下文不足以回答，请明确说明。
You are an academic question answering assistant. Answer strictly from the provided context; say so explicitly when the context is insufficient.

# Context
%s

# Question
%s

# Answer`

// NoDataPrompt generates a polite refusal in the language of the
// question when retrieval found nothing relevant.
const NoDataPrompt = `用户提出了下面的问题，但知识库中没有找到相关内容。请用与问题相同的语言简短说明知识库中没有相关资料，并建议用户上传相关文档。不要编造答案。
The user asked the question below but the knowledge base contains no relevant material. In the same language as the question, briefly say that nothing relevant was found and suggest uploading related documents. Do not invent an answer.

# Question
%s`
