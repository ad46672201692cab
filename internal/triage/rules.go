package triage

import (
	"fmt"
	"unicode/utf8"
)

// Template builds the structured response for a matched message.
type Template func(text string) Response

// Rule pairs a keyword set with its template. Rules are evaluated in slice
// order and the first rule with any keyword present wins.
type Rule struct {
	Category string
	Keywords []string
	Template Template
}

// SymptomRules covers the symptom-report path. Urgent categories come first.
var SymptomRules = []Rule{
	{"shortness_of_breath", []string{"shortness of breath", "short of breath", "breathless", "difficulty breathing", "breathing difficulty", "trouble breathing", "wheez"}, shortnessOfBreath},
	{"chest_pain", []string{"chest pain", "chest tightness", "tight chest", "chest pressure", "chest discomfort"}, chestPain},
	{"headache", []string{"headache", "head ache", "migraine", "head pain", "head hurts"}, headache},
	{"fever", []string{"fever", "temperature", "chills"}, fever},
	{"nausea", []string{"nausea", "nauseous", "vomit", "throwing up", "queasy"}, nausea},
	{"dizziness", []string{"dizzy", "dizziness", "vertigo", "lightheaded", "light-headed", "spinning"}, dizziness},
	{"abdominal_pain", []string{"stomach", "abdominal", "abdomen", "belly", "tummy", "cramps"}, abdominalPain},
	{"fatigue", []string{"fatigue", "tired", "exhausted", "no energy", "weakness"}, fatigue},
	{"cough", []string{"cough"}, cough},
	{"sore_throat", []string{"sore throat", "throat pain", "throat hurts", "scratchy throat"}, soreThroat},
	{"back_pain", []string{"back pain", "backache", "lower back", "upper back"}, backPain},
	{"allergy", []string{"allergy", "allergic", "rash", "itching", "itchy", "hives", "sneezing"}, allergy},
}

const genericCategory = "general"

func shortnessOfBreath(string) Response {
	return Response{
		Intent:        SymptomReport,
		Category:      "shortness_of_breath",
		Title:         "Symptom Analysis: Shortness of Breath",
		Analysis:      "Difficulty breathing can come from asthma, a chest infection, an allergic reaction, anxiety, or a heart or lung problem that needs urgent care. Breathing trouble should always be assessed promptly.",
		RiskScore:     8,
		CallEmergency: true,
		Medicines: []string{
			"If you have a prescribed reliever inhaler, use it as your doctor instructed.",
			"Do not start any new medicine for breathlessness without a doctor's advice.",
		},
		WhenToSeeDoctor: []string{
			"Immediately if breathlessness came on suddenly or is getting worse.",
			"The same day if it happens with mild exertion or wakes you at night.",
		},
		HomeRemedies: []string{
			"Sit upright and keep calm; slow breathing in through the nose and out through the mouth.",
			"Move away from smoke, dust, or any known trigger.",
		},
		RedFlags: []string{
			"Blue or grey lips or fingertips.",
			"Unable to speak in full sentences.",
			"Chest pain, fainting, or confusion.",
		},
	}
}

func chestPain(string) Response {
	return Response{
		Intent:        Emergency,
		Category:      "chest_pain",
		Title:         "Urgent: Chest Pain or Tightness",
		Analysis:      "Chest pain or tightness can be a sign of a heart attack or another serious condition. It must be treated as an emergency until a doctor has ruled this out.",
		RiskScore:     9,
		CallEmergency: true,
		Medicines: []string{
			"Do not take any medicine unless a doctor or emergency operator tells you to.",
		},
		WhenToSeeDoctor: []string{
			"Now. Get emergency care rather than waiting for an appointment.",
		},
		HomeRemedies: []string{
			"Stop all activity and sit down while help is on the way.",
			"Unlock the door and keep someone with you if possible.",
		},
		RedFlags: []string{
			"Pain spreading to the arm, jaw, neck, or back.",
			"Sweating, nausea, or shortness of breath with the pain.",
		},
	}
}

func headache(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "headache",
		Title:     "Symptom Analysis: Headache",
		Analysis:  "Most headaches are tension-type or linked to dehydration, screen strain, poor sleep, or stress, and settle with rest and simple care.",
		RiskScore: 3,
		Medicines: []string{
			"Paracetamol at the dose on the label can ease pain.",
			"Ibuprofen with food may help if you have no stomach or kidney problems.",
		},
		WhenToSeeDoctor: []string{
			"Headaches that keep returning or last more than a few days.",
			"Headaches that wake you from sleep.",
		},
		HomeRemedies: []string{
			"Drink water regularly and rest in a quiet, dark room.",
			"Take breaks from screens and relax the neck and shoulders.",
		},
		RedFlags: []string{
			"Sudden, severe \"worst ever\" headache.",
			"Headache with stiff neck, fever, confusion, weakness, or vision loss.",
		},
	}
}

func fever(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "fever",
		Title:     "Symptom Analysis: Fever",
		Analysis:  "Fever is usually the body fighting an infection such as a cold, flu, or a viral illness. Keeping hydrated and monitoring the temperature is important.",
		RiskScore: 4,
		Medicines: []string{
			"Paracetamol at the dose on the label can bring the temperature down.",
		},
		WhenToSeeDoctor: []string{
			"Fever lasting more than three days.",
			"Temperature of 39.5°C (103°F) or higher.",
			"Fever in infants, older adults, or during pregnancy.",
		},
		HomeRemedies: []string{
			"Drink plenty of fluids such as water, ORS, or soups.",
			"Rest and wear light clothing; a lukewarm sponge can help.",
		},
		RedFlags: []string{
			"Rash that does not fade when pressed.",
			"Stiff neck, confusion, or difficulty breathing.",
		},
	}
}

func nausea(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "nausea",
		Title:     "Symptom Analysis: Nausea and Vomiting",
		Analysis:  "Nausea and vomiting are often caused by a stomach infection, food intolerance, or motion sickness. The main risk is dehydration.",
		RiskScore: 4,
		Medicines: []string{
			"Oral rehydration salts (ORS) to replace lost fluids.",
			"Ask a pharmacist before taking anti-sickness medicine.",
		},
		WhenToSeeDoctor: []string{
			"Vomiting for more than 24 hours or unable to keep fluids down.",
			"Signs of dehydration such as very little urine or dizziness on standing.",
		},
		HomeRemedies: []string{
			"Take small, frequent sips of water or ORS.",
			"Eat bland foods such as rice, toast, or bananas once vomiting settles.",
		},
		RedFlags: []string{
			"Blood or dark material in vomit.",
			"Severe abdominal pain or a very high fever.",
		},
	}
}

func dizziness(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "dizziness",
		Title:     "Symptom Analysis: Dizziness",
		Analysis:  "Dizziness is commonly linked to dehydration, standing up too quickly, low blood sugar, or inner-ear problems.",
		RiskScore: 4,
		WhenToSeeDoctor: []string{
			"Dizziness that keeps coming back or lasts more than a day.",
			"Dizziness with hearing changes or ringing in the ears.",
		},
		HomeRemedies: []string{
			"Sit or lie down until it passes, then stand up slowly.",
			"Drink water and eat something if you have skipped a meal.",
		},
		RedFlags: []string{
			"Fainting, chest pain, or a racing heartbeat.",
			"Slurred speech, face drooping, or weakness on one side.",
		},
	}
}

func abdominalPain(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "abdominal_pain",
		Title:     "Symptom Analysis: Stomach Pain",
		Analysis:  "Stomach pain is often due to indigestion, gas, constipation, or a mild stomach infection.",
		RiskScore: 4,
		Medicines: []string{
			"An antacid may ease burning or indigestion-type pain.",
			"Avoid ibuprofen and aspirin for stomach pain.",
		},
		WhenToSeeDoctor: []string{
			"Pain lasting more than two days or getting steadily worse.",
			"Pain with fever, vomiting, or diarrhoea.",
		},
		HomeRemedies: []string{
			"Eat small, light meals and avoid spicy or oily food.",
			"A warm compress on the abdomen may help cramps.",
		},
		RedFlags: []string{
			"Severe pain in the lower right abdomen.",
			"Hard, rigid belly or blood in stool or vomit.",
		},
	}
}

func fatigue(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "fatigue",
		Title:     "Symptom Analysis: Fatigue",
		Analysis:  "Tiredness is commonly related to poor sleep, stress, diet, low iron, or recovering from an illness.",
		RiskScore: 3,
		WhenToSeeDoctor: []string{
			"Fatigue lasting more than two weeks without a clear reason.",
			"Fatigue with weight loss, fever, or night sweats.",
		},
		HomeRemedies: []string{
			"Keep a regular sleep schedule of seven to eight hours.",
			"Eat balanced meals and stay hydrated; light exercise can help.",
		},
		RedFlags: []string{
			"Breathlessness or chest pain on mild effort.",
			"Fainting or extreme weakness.",
		},
	}
}

func cough(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "cough",
		Title:     "Symptom Analysis: Cough",
		Analysis:  "Most coughs come from a cold or other viral infection and clear up within two to three weeks.",
		RiskScore: 3,
		Medicines: []string{
			"Honey in warm water can soothe a cough (not for children under one year).",
			"Ask a pharmacist about a suitable cough syrup.",
		},
		WhenToSeeDoctor: []string{
			"Cough lasting more than three weeks.",
			"Cough with fever that is not improving.",
		},
		HomeRemedies: []string{
			"Drink warm fluids and breathe in steam.",
			"Avoid smoke and dusty environments.",
		},
		RedFlags: []string{
			"Coughing up blood.",
			"Shortness of breath or chest pain.",
		},
	}
}

func soreThroat(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "sore_throat",
		Title:     "Symptom Analysis: Sore Throat",
		Analysis:  "A sore throat is usually caused by a viral infection and gets better within a week.",
		RiskScore: 3,
		Medicines: []string{
			"Paracetamol at the dose on the label for pain.",
			"Throat lozenges may provide relief.",
		},
		WhenToSeeDoctor: []string{
			"Sore throat lasting more than a week.",
			"White patches on the tonsils with a high fever.",
		},
		HomeRemedies: []string{
			"Gargle with warm salt water several times a day.",
			"Drink warm fluids and rest your voice.",
		},
		RedFlags: []string{
			"Difficulty swallowing or breathing.",
			"Drooling or being unable to open the mouth fully.",
		},
	}
}

func backPain(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "back_pain",
		Title:     "Symptom Analysis: Back Pain",
		Analysis:  "Back pain is usually caused by muscle strain or posture and improves within a few weeks with movement.",
		RiskScore: 3,
		Medicines: []string{
			"Paracetamol or ibuprofen at the dose on the label.",
		},
		WhenToSeeDoctor: []string{
			"Pain not improving after two weeks.",
			"Pain spreading down the leg.",
		},
		HomeRemedies: []string{
			"Keep gently active and avoid long bed rest.",
			"Apply heat or a cold pack to the sore area.",
		},
		RedFlags: []string{
			"Numbness around the groin or buttocks.",
			"Loss of bladder or bowel control.",
		},
	}
}

func allergy(string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  "allergy",
		Title:     "Symptom Analysis: Allergy or Rash",
		Analysis:  "Rashes and itching are often allergic reactions to food, pollen, medicines, or something that touched the skin.",
		RiskScore: 3,
		Medicines: []string{
			"A non-drowsy antihistamine such as cetirizine may ease itching.",
			"Calamine lotion can soothe an itchy rash.",
		},
		WhenToSeeDoctor: []string{
			"Rash spreading quickly or not settling within a few days.",
			"Rash with fever.",
		},
		HomeRemedies: []string{
			"Avoid the suspected trigger.",
			"Use a cool compress and wear loose cotton clothing.",
		},
		RedFlags: []string{
			"Swelling of the lips, tongue, or throat.",
			"Difficulty breathing or feeling faint.",
		},
	}
}

func generic(text string) Response {
	return Response{
		Intent:    SymptomReport,
		Category:  genericCategory,
		Title:     "Symptom Analysis",
		Analysis:  fmt.Sprintf("Thank you for describing how you feel (\"%s\"). I could not match this to a specific symptom pattern, so here is general supportive care. Please share more detail such as where it hurts, how long it has lasted, and how severe it is.", excerpt(text, 120)),
		RiskScore: 4,
		WhenToSeeDoctor: []string{
			"Symptoms lasting more than a few days or getting worse.",
			"Any symptom that worries you or affects daily activities.",
		},
		HomeRemedies: []string{
			"Rest, drink plenty of fluids, and eat light meals.",
			"Keep a note of when symptoms start and what makes them better or worse.",
		},
		RedFlags: []string{
			"Chest pain, difficulty breathing, or fainting.",
			"Sudden weakness, confusion, or severe pain.",
		},
	}
}

func emergency(string) Response {
	return Response{
		Intent:        Emergency,
		Category:      "emergency",
		Title:         "Emergency: Seek Help Now",
		Analysis:      "What you describe may be life-threatening. Get emergency medical help right away.",
		RiskScore:     10,
		CallEmergency: true,
		WhenToSeeDoctor: []string{
			"Now. This needs emergency care, not a routine appointment.",
		},
		HomeRemedies: []string{
			"Stay with the person and keep them still and comfortable.",
			"If they are unresponsive and not breathing normally, start CPR if you are trained.",
		},
		RedFlags: []string{
			"Loss of consciousness, stopped breathing, or severe chest pain.",
			"Face drooping, arm weakness, or slurred speech.",
		},
	}
}

func medication(string) Response {
	return Response{
		Intent:    MedicationInquiry,
		Category:  "medication",
		Title:     "Medication Information",
		Analysis:  "Always follow the dose on the label or your prescription. Tell your doctor or pharmacist about other medicines you take, allergies, pregnancy, and kidney or liver problems before starting a new medicine.",
		RiskScore: 2,
		WhenToSeeDoctor: []string{
			"If you are unsure whether a medicine is right for you.",
			"If you notice side effects such as rash, swelling, or unusual symptoms.",
		},
		RedFlags: []string{
			"Swelling of the face or throat, or difficulty breathing after a dose.",
			"Taking more than the maximum daily dose.",
		},
	}
}

func generalQuestion(string) Response {
	return Response{
		Intent:    GeneralHealthQuestion,
		Category:  "general_question",
		Title:     "Health Information",
		Analysis:  "I am offline right now, so I can only share general guidance. A balanced diet, regular activity, enough sleep, and routine check-ups support good health. For a detailed answer to this question, please ask a doctor or try again later.",
		RiskScore: 2,
	}
}

func offTopic(string) Response {
	return Response{
		Intent:    OffTopic,
		Category:  "off_topic",
		Title:     "Health Assistant",
		Analysis:  "I can only help with health questions and symptoms. Tell me how you are feeling or what you would like to know about your health.",
		RiskScore: 1,
	}
}

func excerpt(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "…"
}
