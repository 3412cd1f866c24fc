package tutor

import (
	"fmt"
	"strings"
)

// The prompts keep the voice the curriculum team wrote for the service:
// a BTEC IT teacher in Jordan, answering in simplified standard Arabic
// with English only for technical terms.

func explainPrompt(topic, level, contextDoc string) string {
	var style string
	switch level {
	case "Beginner":
		style = "اشرح الفكرة بأسلوب مبسط جداً مع أمثلة من الحياة اليومية."
	case "Intermediate":
		style = "اشرح بمستوى متوسط مع توضيح المصطلحات الأساسية."
	default:
		style = "اشرح بمستوى متقدم مع ربط المفاهيم البرمجية ببعضها."
	}

	return fmt.Sprintf(`أنت مدرس BTEC IT في الأردن.

المستوى: %s

قواعد:
- اشرح بالعربية الفصحى المبسطة.
- استخدم المصطلحات التقنية بالإنجليزية بين قوسين عند الحاجة.
- لا تستخدم Markdown أو نقاط.

الموضوع:
%s

Context:
%s

تعليمات الأسلوب:
%s`, level, topic, contextDoc, style)
}

func exercisePrompt(topic, level, focus, contextDoc string) string {
	return fmt.Sprintf(`أنت مدرس BTEC IT في الأردن.

أنشئ سؤال تدريب وصفي واحد فقط.

الموضوع: %s
المستوى: %s
التركيز: %s

القواعد:
- التزم بمنهاج Pearson BTEC Level 2 Unit 5
- السؤال للتدريب فقط
- لا تذكر الحل
- لا تذكر الدرجة
- السؤال يجب أن يكون واضحاً ومحدداً

Context:
%s`, topic, level, focus, contextDoc)
}

func quizPrompt(topic, level, contextDoc string) string {
	return fmt.Sprintf(`أنت مدرس BTEC IT.

أنشئ سؤال اختيار من متعدد (MCQ) للتدريب فقط.

الموضوع: %s
المستوى: %s

القواعد:
- سؤال واحد فقط
- 4 خيارات فقط
- إجابة صحيحة واحدة
- لا تخرج عن المنهاج
- لا تضف شرح أو نص زائد

Context:
%s

أعد النتيجة بصيغة JSON فقط بدون أي نص إضافي:
{
  "question": "",
  "options": ["", "", "", ""],
  "correct_index": 0
}`, topic, level, contextDoc)
}

func tutorPrompt(topic, level, focus, contextDoc string) string {
	return fmt.Sprintf(`أنت مدرس BTEC IT تعمل كمدرّس مساعد.

الموضوع: %s
المستوى: %s
المفاهيم التي أخطأ فيها الطالب: %s

المطلوب:
1. شرح مبسط يركّز فقط على هذه المفاهيم
2. مثال واحد واضح
3. سؤال إرشادي واحد
4. تلميحات بدون إعطاء الحل

قواعد:
- لا تذكر الحل
- لا تذكر درجة
- لا تستخدم Markdown
- لا تشرح الدرس كاملاً

Context:
%s`, topic, level, focus, contextDoc)
}

func feedbackPrompt(answer string, covered, missing []string) string {
	return fmt.Sprintf(`أنت مدرس BTEC IT.

مهمتك:
كتابة تعليق قصير ومباشر على إجابة الطالب فقط.

القواعد:
- لا تشرح الدرس أو التوبك.
- لا تضف معلومات جديدة.
- لا تعطي أمثلة.
- لا تذكر درجات أو تقييم رقمي.
- ركّز فقط على هذه الإجابة.

إجابة الطالب:
%s

نقاط غطاها الطالب بشكل صحيح:
%s

نقاط لم يغطها الطالب:
%s

اكتب تعليقًا تعليميًا مختصرًا من سطرين إلى ثلاثة أسطر كحد أقصى.`,
		answer, strings.Join(covered, "، "), strings.Join(missing, "، "))
}

// joinFocus renders missing points as a prompt focus, with the generic
// lesson-concept phrase when there is nothing recorded.
func joinFocus(points []string) string {
	if len(points) == 0 {
		return "المفهوم الأساسي في هذا الدرس"
	}
	return strings.Join(points, "، ")
}
